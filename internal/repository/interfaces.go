package repository

import (
	"context"

	"github.com/Kosench/expiring-link-bot/internal/model"
)

// LinkRepository - хранилище ссылок. Все операции атомарны относительно
// друг друга для одного токена.
type LinkRepository interface {
	// Create возвращает ErrTokenExists, если токен занят
	Create(ctx context.Context, link *model.Link) error
	GetByToken(ctx context.Context, token string) (*model.Link, error)
	// ConsumeOne списывает клик и возвращает destination. Если кликов
	// не осталось, удаляет запись и возвращает ErrLinkExhausted.
	ConsumeOne(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}
