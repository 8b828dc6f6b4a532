package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

func (f *fakeSender) SendText(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("telegram unavailable")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fakeConversation struct {
	started []int64
	texts   []string
	reply   string
	err     error
	panic   bool
}

func (f *fakeConversation) Start(chatID int64) string {
	f.started = append(f.started, chatID)
	return "welcome"
}

func (f *fakeConversation) HandleText(_ context.Context, _ int64, text string) (string, error) {
	if f.panic {
		panic("boom")
	}
	f.texts = append(f.texts, text)
	return f.reply, f.err
}

func textUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}}
}

func commandUpdate(chatID int64, command string) tgbotapi.Update {
	update := textUpdate(chatID, "/"+command)
	update.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(command) + 1},
	}
	return update
}

func newTestDispatcher(conv Conversation, sender Sender) *Dispatcher {
	log := zerolog.Nop()
	return NewDispatcher(conv, sender, &log)
}

func TestDispatcher_StartCommand(t *testing.T) {
	conv := &fakeConversation{}
	sender := &fakeSender{}

	newTestDispatcher(conv, sender).HandleUpdate(context.Background(), commandUpdate(42, "start"))

	assert.Equal(t, []int64{42}, conv.started)
	assert.Empty(t, conv.texts, "command must not reach the text handler")
	require.Len(t, sender.sent, 1)
	assert.Equal(t, sentMessage{chatID: 42, text: "welcome"}, sender.sent[0])
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	conv := &fakeConversation{}
	sender := &fakeSender{}

	newTestDispatcher(conv, sender).HandleUpdate(context.Background(), commandUpdate(42, "help"))

	assert.Empty(t, conv.started)
	assert.Empty(t, conv.texts)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, "/start")
}

func TestDispatcher_TextMessage(t *testing.T) {
	conv := &fakeConversation{reply: "enter hours"}
	sender := &fakeSender{}

	newTestDispatcher(conv, sender).HandleUpdate(context.Background(), textUpdate(7, "https://example.com"))

	assert.Equal(t, []string{"https://example.com"}, conv.texts)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "enter hours", sender.sent[0].text)
}

func TestDispatcher_ConversationErrorStillReplies(t *testing.T) {
	conv := &fakeConversation{reply: "try again", err: errors.New("db down")}
	sender := &fakeSender{}

	newTestDispatcher(conv, sender).HandleUpdate(context.Background(), textUpdate(7, "3"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "try again", sender.sent[0].text)
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	conv := &fakeConversation{panic: true}
	sender := &fakeSender{}
	d := newTestDispatcher(conv, sender)

	assert.NotPanics(t, func() {
		d.HandleUpdate(context.Background(), textUpdate(7, "boom"))
	})
	require.Len(t, sender.sent, 1)
	assert.Equal(t, msgInternalError, sender.sent[0].text)

	// бот продолжает обслуживать следующие сообщения
	conv.panic = false
	conv.reply = "ok"
	d.HandleUpdate(context.Background(), textUpdate(7, "next"))
	assert.Len(t, sender.sent, 2)
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	conv := &fakeConversation{reply: "hi"}
	sender := &fakeSender{fail: true}

	assert.NotPanics(t, func() {
		newTestDispatcher(conv, sender).HandleUpdate(context.Background(), textUpdate(7, "hello"))
	})
	assert.Equal(t, []string{"hello"}, conv.texts)
}

func TestDispatcher_IgnoresNonMessageUpdates(t *testing.T) {
	conv := &fakeConversation{}
	sender := &fakeSender{}
	d := newTestDispatcher(conv, sender)

	d.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 1})
	d.HandleUpdate(context.Background(), textUpdate(7, ""))

	assert.Empty(t, conv.texts)
	assert.Empty(t, sender.sent)
}
