package repository

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/Kosench/expiring-link-bot/internal/errors"
	"github.com/Kosench/expiring-link-bot/internal/model"
)

// MemoryLinkRepository хранит ссылки в памяти процесса. Используется
// в тестах и при storage.driver=memory.
type MemoryLinkRepository struct {
	mu    sync.Mutex
	links map[string]model.Link
}

func NewMemoryLinkRepository() *MemoryLinkRepository {
	return &MemoryLinkRepository{
		links: make(map[string]model.Link),
	}
}

func (r *MemoryLinkRepository) Create(_ context.Context, link *model.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.links[link.Token]; exists {
		return apperrors.ErrTokenExists
	}

	r.links[link.Token] = *link
	return nil
}

func (r *MemoryLinkRepository) GetByToken(_ context.Context, token string) (*model.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.links[token]
	if !exists {
		return nil, fmt.Errorf("link with token '%s': %w", token, apperrors.ErrLinkNotFound)
	}

	return &link, nil
}

func (r *MemoryLinkRepository) ConsumeOne(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, exists := r.links[token]
	if !exists {
		return "", fmt.Errorf("link with token '%s': %w", token, apperrors.ErrLinkNotFound)
	}

	if link.ClicksRemaining <= 0 {
		delete(r.links, token)
		return "", apperrors.ErrLinkExhausted
	}

	link.ClicksRemaining--
	r.links[token] = link

	return link.Destination, nil
}

func (r *MemoryLinkRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.links, token)
	return nil
}

func (r *MemoryLinkRepository) Ping(context.Context) error {
	return nil
}

func (r *MemoryLinkRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.links)
}
