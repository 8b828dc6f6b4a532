package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramBot - транспорт Telegram: long polling или webhook
type TelegramBot struct {
	api *tgbotapi.BotAPI
	log *zerolog.Logger
}

func NewTelegramBot(token string, log *zerolog.Logger) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	log.Info().Str("username", api.Self.UserName).Msg("authorized on Telegram")

	return &TelegramBot{api: api, log: log}, nil
}

func (b *TelegramBot) SendText(chatID int64, text string) error {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// RunPolling получает апдейты, пока не отменен ctx. Каждый апдейт
// обрабатывается в своей горутине.
func (b *TelegramBot) RunPolling(ctx context.Context, d *Dispatcher, timeout int) error {
	// Снимаем webhook, иначе getUpdates вернет конфликт
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	b.log.Info().Msg("bot polling started")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info().Msg("bot polling stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				d.HandleUpdate(ctx, update)
			}()
		}
	}
}

// RegisterWebhook сообщает Telegram адрес, на который слать апдейты
func (b *TelegramBot) RegisterWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}

	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	b.log.Info().Msg("webhook registered")
	return nil
}
