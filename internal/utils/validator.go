package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/Kosench/expiring-link-bot/internal/errors"
	"github.com/Kosench/expiring-link-bot/internal/model"
)

func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return apperrors.NewValidationError("url", "URL cannot be empty")
	}

	if len(rawURL) > 2048 {
		return apperrors.NewValidationError("url", "URL is too long (max 2048 characters)")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return apperrors.NewValidationError("url", "URL must start with http:// or https://")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.NewValidationError("url", fmt.Sprintf("invalid URL format: %v", err))
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("url", "URL must contain a valid host")
	}

	return nil
}

// ParseHours разбирает срок жизни ссылки по правилам policy
func ParseHours(input string, policy model.LinkPolicy) (int, error) {
	hours, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || !policy.HoursAllowed(hours) {
		return 0, apperrors.NewValidationError("hours", "allowed values: "+policy.HoursHint())
	}
	return hours, nil
}

func ParseClicks(input string, policy model.LinkPolicy) (int, error) {
	clicks, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || !policy.ClicksAllowed(clicks) {
		if policy.MaxClicks > 0 {
			return 0, apperrors.NewValidationError("clicks", fmt.Sprintf("must be between 1 and %d", policy.MaxClicks))
		}
		return 0, apperrors.NewValidationError("clicks", "must be a positive number")
	}
	return clicks, nil
}

func SanitizeInput(input string) string {
	// Удаляем управляющие символы и обрезаем пробелы
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1 // удаляем символ
		}
		return r
	}, input)

	return strings.TrimSpace(result)
}
