package service

import (
	"time"

	"github.com/Kosench/expiring-link-bot/internal/model"
)

// EvaluateLink определяет состояние ссылки на момент now.
// Срок проверяется первым: просроченная ссылка считается просроченной
// независимо от оставшихся кликов.
func EvaluateLink(link *model.Link, now time.Time) model.LinkState {
	if now.Unix() >= link.ExpiresAt.Unix() {
		return model.LinkExpired
	}
	if link.ClicksRemaining <= 0 {
		return model.LinkExhausted
	}
	return model.LinkLive
}
