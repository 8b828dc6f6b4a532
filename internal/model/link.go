package model

import "time"

// Link - запись короткой ссылки с ограничением по времени и кликам
type Link struct {
	Token           string    `json:"token"`
	Destination     string    `json:"destination"`
	ExpiresAt       time.Time `json:"expires_at"`
	ClicksRemaining int       `json:"clicks_remaining"`
}

type CreateLinkRequest struct {
	Destination string `json:"destination"`
	Hours       int    `json:"hours"`
	MaxClicks   int    `json:"max_clicks"`
}

type LinkResponse struct {
	Token           string    `json:"token"`
	Destination     string    `json:"destination"`
	ShortURL        string    `json:"short_url"`
	ExpiresAt       time.Time `json:"expires_at"`
	ClicksRemaining int       `json:"clicks_remaining"`
}

// LinkState - состояние ссылки в момент обращения
type LinkState int

const (
	LinkLive LinkState = iota
	LinkExpired
	LinkExhausted
)

func (s LinkState) String() string {
	switch s {
	case LinkLive:
		return "live"
	case LinkExpired:
		return "expired"
	case LinkExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// VisitStatus - итог перехода по короткой ссылке
type VisitStatus int

const (
	VisitAllowed VisitStatus = iota
	VisitExpired
	// VisitInvalid объединяет "не существовала" и "уже удалена"
	VisitInvalid
	VisitExhausted
)

func (s VisitStatus) String() string {
	switch s {
	case VisitAllowed:
		return "allowed"
	case VisitExpired:
		return "expired"
	case VisitInvalid:
		return "expired_or_invalid"
	case VisitExhausted:
		return "click_limit_exceeded"
	default:
		return "unknown"
	}
}

type VisitResult struct {
	Status      VisitStatus
	Destination string
}
