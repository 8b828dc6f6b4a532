package model

import (
	"strconv"
	"strings"
)

// Stage - шаг диалога создания ссылки
type Stage int

const (
	StageEmpty Stage = iota
	StageHasURL
	StageHasURLAndHours
)

func (s Stage) String() string {
	switch s {
	case StageEmpty:
		return "empty"
	case StageHasURL:
		return "has_url"
	case StageHasURLAndHours:
		return "has_url_and_hours"
	default:
		return "unknown"
	}
}

type ConversationSession struct {
	Stage        Stage
	PendingURL   string
	PendingHours int
}

// Reset возвращает сессию в начальное состояние
func (s *ConversationSession) Reset() {
	*s = ConversationSession{}
}

const (
	HoursModeWhitelist = "whitelist"
	HoursModeRange     = "range"
)

// LinkPolicy - допустимые значения срока жизни и лимита кликов
type LinkPolicy struct {
	HoursMode    string
	AllowedHours []int
	MinHours     int
	MaxHours     int
	// MaxClicks == 0 означает отсутствие верхней границы
	MaxClicks int
}

func DefaultLinkPolicy() LinkPolicy {
	return LinkPolicy{
		HoursMode:    HoursModeWhitelist,
		AllowedHours: []int{2, 4, 6, 8, 12, 24},
		MinHours:     2,
		MaxHours:     24,
		MaxClicks:    10,
	}
}

func (p LinkPolicy) HoursAllowed(hours int) bool {
	if p.HoursMode == HoursModeRange {
		return hours >= p.MinHours && hours <= p.MaxHours
	}
	for _, h := range p.AllowedHours {
		if h == hours {
			return true
		}
	}
	return false
}

// HoursHint описывает допустимые часы для ответа пользователю
func (p LinkPolicy) HoursHint() string {
	if p.HoursMode == HoursModeRange {
		return strconv.Itoa(p.MinHours) + "–" + strconv.Itoa(p.MaxHours)
	}
	parts := make([]string, 0, len(p.AllowedHours))
	for _, h := range p.AllowedHours {
		parts = append(parts, strconv.Itoa(h))
	}
	return strings.Join(parts, ", ")
}

func (p LinkPolicy) ClicksAllowed(clicks int) bool {
	if clicks < 1 {
		return false
	}
	return p.MaxClicks == 0 || clicks <= p.MaxClicks
}
