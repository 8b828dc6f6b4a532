package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/Kosench/expiring-link-bot/internal/errors"
	"github.com/Kosench/expiring-link-bot/internal/model"
	"github.com/Kosench/expiring-link-bot/internal/redisdb"
)

// RedisLinkRepository - хранилище ссылок в Redis. Redis сам удаляет ключ
// в момент expires_at, поэтому просроченные и никем не открытые ссылки не копятся.
type RedisLinkRepository struct {
	store redisdb.LinkStore
}

func NewRedisLinkRepository(store redisdb.LinkStore) *RedisLinkRepository {
	return &RedisLinkRepository{store: store}
}

func (r *RedisLinkRepository) Create(ctx context.Context, link *model.Link) error {
	created, err := r.store.CreateLink(ctx, link.Token, redisdb.LinkHash{
		Destination:     link.Destination,
		ExpiresAt:       link.ExpiresAt.Unix(),
		ClicksRemaining: link.ClicksRemaining,
	})
	if err != nil {
		return apperrors.NewBusinessError(apperrors.CodeRedis, "failed to create link", err)
	}
	if !created {
		return apperrors.ErrTokenExists
	}

	return nil
}

func (r *RedisLinkRepository) GetByToken(ctx context.Context, token string) (*model.Link, error) {
	hash, err := r.store.GetLink(ctx, token)
	if errors.Is(err, redisdb.ErrKeyMissing) {
		return nil, fmt.Errorf("link with token '%s': %w", token, apperrors.ErrLinkNotFound)
	}
	if err != nil {
		return nil, apperrors.NewBusinessError(apperrors.CodeRedis, "failed to get link", err)
	}

	return &model.Link{
		Token:           token,
		Destination:     hash.Destination,
		ExpiresAt:       time.Unix(hash.ExpiresAt, 0),
		ClicksRemaining: hash.ClicksRemaining,
	}, nil
}

func (r *RedisLinkRepository) ConsumeOne(ctx context.Context, token string) (string, error) {
	outcome, destination, err := r.store.ConsumeLink(ctx, token)
	if err != nil {
		return "", apperrors.NewBusinessError(apperrors.CodeRedis, "failed to consume click", err)
	}

	switch outcome {
	case redisdb.ConsumeOK:
		return destination, nil
	case redisdb.ConsumeExhausted:
		return "", apperrors.ErrLinkExhausted
	default:
		return "", fmt.Errorf("link with token '%s': %w", token, apperrors.ErrLinkNotFound)
	}
}

func (r *RedisLinkRepository) Delete(ctx context.Context, token string) error {
	if err := r.store.DeleteLink(ctx, token); err != nil {
		return apperrors.NewBusinessError(apperrors.CodeRedis, "failed to delete link", err)
	}
	return nil
}

func (r *RedisLinkRepository) Ping(ctx context.Context) error {
	return r.store.HealthCheck(ctx)
}
