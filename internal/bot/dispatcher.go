package bot

import (
	"context"
	"fmt"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Sender отправляет текстовый ответ в чат
type Sender interface {
	SendText(chatID int64, text string) error
}

// Conversation - диалог создания ссылки
type Conversation interface {
	Start(chatID int64) string
	HandleText(ctx context.Context, chatID int64, text string) (string, error)
}

const msgInternalError = "⚠️ Something went wrong, please try again."

// Dispatcher разбирает входящие апдейты и передает их в диалог.
// Ошибки и паники одного апдейта логируются и не останавливают бота.
type Dispatcher struct {
	conv   Conversation
	sender Sender
	log    *zerolog.Logger
}

func NewDispatcher(conv Conversation, sender Sender, log *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		conv:   conv,
		sender: sender,
		log:    log,
	}
}

func (d *Dispatcher) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	defer func() {
		if p := recover(); p != nil {
			d.log.Error().
				Int64("chat_id", chatID).
				Str("panic", fmt.Sprint(p)).
				Bytes("stack", debug.Stack()).
				Msg("panic while handling update")
			d.reply(chatID, msgInternalError)
		}
	}()

	if msg.IsCommand() {
		d.handleCommand(chatID, msg.Command())
		return
	}

	if msg.Text == "" {
		return
	}

	reply, err := d.conv.HandleText(ctx, chatID, msg.Text)
	if err != nil {
		d.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to handle message")
	}
	d.reply(chatID, reply)
}

func (d *Dispatcher) handleCommand(chatID int64, command string) {
	d.log.Debug().Int64("chat_id", chatID).Str("command", command).Msg("command received")

	switch command {
	case "start":
		d.reply(chatID, d.conv.Start(chatID))
	default:
		d.reply(chatID, "Unknown command. Send /start to begin.")
	}
}

func (d *Dispatcher) reply(chatID int64, text string) {
	if text == "" {
		return
	}
	if err := d.sender.SendText(chatID, text); err != nil {
		d.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send reply")
	}
}
