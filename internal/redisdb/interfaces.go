package redisdb

import "context"

// LinkStore - операции над ссылками, которые нужны репозиторию
type LinkStore interface {
	CreateLink(ctx context.Context, token string, link LinkHash) (bool, error)
	GetLink(ctx context.Context, token string) (*LinkHash, error)
	ConsumeLink(ctx context.Context, token string) (ConsumeOutcome, string, error)
	DeleteLink(ctx context.Context, token string) error

	// Управление соединением
	HealthCheck(ctx context.Context) error
	Close() error
}
