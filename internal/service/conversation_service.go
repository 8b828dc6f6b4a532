package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Kosench/expiring-link-bot/internal/model"
	"github.com/Kosench/expiring-link-bot/internal/utils"
)

const (
	MsgWelcome       = "🔗 Expiring Link Bot\n\nSend me a URL to create a temporary link."
	MsgInvalidURL    = "❌ Please send a valid URL (http/https)"
	MsgInvalidClicks = "❌ Enter a valid click number"
	MsgCreateFailed  = "⚠️ Could not create the link right now, please send the click limit again."
)

// LinkCreator - то, что нужно диалогу от сервиса ссылок
type LinkCreator interface {
	CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkResponse, error)
}

type sessionEntry struct {
	mu      sync.Mutex
	session model.ConversationSession
}

// ConversationService ведет пошаговый диалог создания ссылки:
// URL -> срок в часах -> лимит кликов. Сессии живут в памяти процесса,
// сообщения одного чата обрабатываются строго по очереди.
type ConversationService struct {
	links  LinkCreator
	policy model.LinkPolicy

	mu       sync.Mutex
	sessions map[int64]*sessionEntry
}

func NewConversationService(links LinkCreator, policy model.LinkPolicy) *ConversationService {
	return &ConversationService{
		links:    links,
		policy:   policy,
		sessions: make(map[int64]*sessionEntry),
	}
}

// entry возвращает сессию чата, создавая ее при первом сообщении
func (s *ConversationService) entry(chatID int64) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[chatID]
	if !ok {
		e = &sessionEntry{}
		s.sessions[chatID] = e
	}
	return e
}

// Start сбрасывает сессию и возвращает приветствие
func (s *ConversationService) Start(chatID int64) string {
	e := s.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.Reset()
	return MsgWelcome
}

// HandleText продвигает диалог на один шаг. Некорректный ввод оставляет
// сессию на текущем шаге. Ошибка возвращается только при сбое создания
// ссылки, ответ пользователю при этом все равно заполнен.
func (s *ConversationService) HandleText(ctx context.Context, chatID int64, text string) (string, error) {
	e := s.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()

	text = utils.SanitizeInput(text)

	switch e.session.Stage {
	case model.StageHasURL:
		hours, err := utils.ParseHours(text, s.policy)
		if err != nil {
			return s.invalidHoursReply(), nil
		}
		e.session.PendingHours = hours
		e.session.Stage = model.StageHasURLAndHours
		return s.askClicksReply(), nil

	case model.StageHasURLAndHours:
		clicks, err := utils.ParseClicks(text, s.policy)
		if err != nil {
			return MsgInvalidClicks, nil
		}

		resp, err := s.links.CreateLink(ctx, &model.CreateLinkRequest{
			Destination: e.session.PendingURL,
			Hours:       e.session.PendingHours,
			MaxClicks:   clicks,
		})
		if err != nil {
			return MsgCreateFailed, fmt.Errorf("create link for chat %d: %w", chatID, err)
		}

		hours := e.session.PendingHours
		e.session.Reset()
		return fmt.Sprintf("✅ Temporary Link Created:\n%s\n\n⏳ Valid: %d hours\n🖱️ Clicks: %d",
			resp.ShortURL, hours, resp.ClicksRemaining), nil

	default:
		if err := utils.ValidateURL(text); err != nil {
			return MsgInvalidURL, nil
		}
		e.session.PendingURL = text
		e.session.Stage = model.StageHasURL
		return s.askHoursReply(), nil
	}
}

// Session возвращает копию текущей сессии чата
func (s *ConversationService) Session(chatID int64) (model.ConversationSession, bool) {
	s.mu.Lock()
	e, ok := s.sessions[chatID]
	s.mu.Unlock()
	if !ok {
		return model.ConversationSession{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, true
}

func (s *ConversationService) askHoursReply() string {
	if s.policy.HoursMode == model.HoursModeRange {
		return fmt.Sprintf("⏳ Enter expiry time in hours (%s)", s.policy.HoursHint())
	}
	return fmt.Sprintf("⏳ Enter expiry time in hours, one of: %s", s.policy.HoursHint())
}

func (s *ConversationService) invalidHoursReply() string {
	if s.policy.HoursMode == model.HoursModeRange {
		return fmt.Sprintf("❌ Enter hours between %d and %d", s.policy.MinHours, s.policy.MaxHours)
	}
	return fmt.Sprintf("❌ Choose one of: %s", s.policy.HoursHint())
}

func (s *ConversationService) askClicksReply() string {
	if s.policy.MaxClicks > 0 {
		return fmt.Sprintf("🖱️ Enter click limit (1–%d)", s.policy.MaxClicks)
	}
	return "🖱️ Enter click limit"
}
