package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestBusinessError_Chain(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("failed to consume click: %w", NewBusinessError(CodeDatabase, "failed to consume click", cause))

	if !IsBusinessError(err) {
		t.Fatalf("IsBusinessError() = false for %v", err)
	}
	if !HasCode(err, CodeDatabase) {
		t.Errorf("HasCode(%s) = false", CodeDatabase)
	}
	if HasCode(err, CodeRedis) {
		t.Errorf("HasCode(%s) = true", CodeRedis)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause is not reachable through Unwrap")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation with field", NewValidationError("hours", "must be positive"), "invalid hours: must be positive"},
		{"validation without field", NewValidationError("", "empty"), "invalid input: empty"},
		{"business without cause", NewBusinessError(CodeRedis, "failed to get link", nil), "[REDIS_ERROR] failed to get link"},
		{"config", NewConfigError("bot.token", "required"), "config bot.token: required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasCode_NoBusinessError(t *testing.T) {
	if HasCode(ErrLinkNotFound, CodeDatabase) {
		t.Error("HasCode() = true for a plain sentinel")
	}
	if HasCode(nil, CodeDatabase) {
		t.Error("HasCode(nil) = true")
	}
}
