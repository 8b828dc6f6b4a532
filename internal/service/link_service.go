package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/Kosench/expiring-link-bot/internal/errors"
	"github.com/Kosench/expiring-link-bot/internal/model"
	"github.com/Kosench/expiring-link-bot/internal/repository"
	"github.com/Kosench/expiring-link-bot/internal/utils"
)

// TokenIssuer выдает случайные токены для новых ссылок
type TokenIssuer interface {
	Issue() (string, error)
}

type randomIssuer struct {
	length int
}

func (i randomIssuer) Issue() (string, error) {
	return utils.GenerateTokenWithLength(i.length)
}

func NewRandomIssuer(length int) TokenIssuer {
	if length == 0 {
		length = utils.DefaultTokenLength
	}
	return randomIssuer{length: length}
}

type LinkService struct {
	linkRepo   repository.LinkRepository
	issuer     TokenIssuer
	baseURL    string
	maxRetries int
	now        func() time.Time
}

type LinkServiceOption func(*LinkService)

func WithIssuer(issuer TokenIssuer) LinkServiceOption {
	return func(s *LinkService) { s.issuer = issuer }
}

func WithMaxRetries(n int) LinkServiceOption {
	return func(s *LinkService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

func WithClock(now func() time.Time) LinkServiceOption {
	return func(s *LinkService) { s.now = now }
}

func NewLinkService(linkRepo repository.LinkRepository, baseURL string, opts ...LinkServiceOption) *LinkService {
	s := &LinkService{
		linkRepo:   linkRepo,
		issuer:     NewRandomIssuer(utils.DefaultTokenLength),
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: 5,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateLink выдает токен и сохраняет ссылку. Коллизия токена
// обрабатывается повторной выдачей и наружу не попадает.
func (s *LinkService) CreateLink(ctx context.Context, req *model.CreateLinkRequest) (*model.LinkResponse, error) {
	destination := utils.SanitizeInput(req.Destination)
	if err := utils.ValidateURL(destination); err != nil {
		return nil, fmt.Errorf("validate error: %w", err)
	}
	if req.Hours <= 0 {
		return nil, apperrors.NewValidationError("hours", "must be positive")
	}
	if req.MaxClicks <= 0 {
		return nil, apperrors.NewValidationError("clicks", "must be positive")
	}

	link := &model.Link{
		Destination:     destination,
		ExpiresAt:       time.Unix(s.now().Unix()+int64(req.Hours)*3600, 0),
		ClicksRemaining: req.MaxClicks,
	}

	if err := s.insertWithFreshToken(ctx, link); err != nil {
		return nil, err
	}

	return &model.LinkResponse{
		Token:           link.Token,
		Destination:     link.Destination,
		ShortURL:        s.BuildShortURL(link.Token),
		ExpiresAt:       link.ExpiresAt,
		ClicksRemaining: link.ClicksRemaining,
	}, nil
}

func (s *LinkService) insertWithFreshToken(ctx context.Context, link *model.Link) error {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		token, err := s.issuer.Issue()
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		link.Token = token
		err = s.linkRepo.Create(ctx, link)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrTokenExists) {
			return fmt.Errorf("failed to create link: %w", err)
		}
	}

	return apperrors.NewBusinessError(
		apperrors.CodeTokenGeneration,
		fmt.Sprintf("no free token after %d attempts", s.maxRetries),
		apperrors.ErrTokenExists,
	)
}

// Visit проверяет ссылку и списывает клик. Ошибка возвращается только
// при сбое хранилища; недействительная ссылка - это статус, а не ошибка.
func (s *LinkService) Visit(ctx context.Context, token string) (*model.VisitResult, error) {
	if !utils.IsValidToken(token) {
		return &model.VisitResult{Status: model.VisitInvalid}, nil
	}

	link, err := s.linkRepo.GetByToken(ctx, token)
	if errors.Is(err, apperrors.ErrLinkNotFound) {
		return &model.VisitResult{Status: model.VisitInvalid}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch link: %w", err)
	}

	switch EvaluateLink(link, s.now()) {
	case model.LinkExpired:
		if err := s.linkRepo.Delete(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to delete expired link: %w", err)
		}
		return &model.VisitResult{Status: model.VisitExpired}, nil
	case model.LinkExhausted:
		if err := s.linkRepo.Delete(ctx, token); err != nil {
			return nil, fmt.Errorf("failed to delete exhausted link: %w", err)
		}
		return &model.VisitResult{Status: model.VisitExhausted}, nil
	}

	// Между проверкой срока и списанием ссылка может истечь;
	// в худшем случае засчитывается один лишний клик.
	destination, err := s.linkRepo.ConsumeOne(ctx, token)
	switch {
	case err == nil:
		return &model.VisitResult{Status: model.VisitAllowed, Destination: destination}, nil
	case errors.Is(err, apperrors.ErrLinkExhausted):
		return &model.VisitResult{Status: model.VisitExhausted}, nil
	case errors.Is(err, apperrors.ErrLinkNotFound):
		return &model.VisitResult{Status: model.VisitInvalid}, nil
	default:
		return nil, fmt.Errorf("failed to consume click: %w", err)
	}
}

func (s *LinkService) BuildShortURL(token string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, token)
}
