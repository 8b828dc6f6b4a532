package utils

import (
	"strings"
	"testing"

	apperrors "github.com/Kosench/expiring-link-bot/internal/errors"
	"github.com/Kosench/expiring-link-bot/internal/model"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid http URL", url: "http://example.com"},
		{name: "valid https URL", url: "https://google.com/search?q=test"},
		{name: "empty URL", url: "", wantErr: true},
		{name: "plain text", url: "hello", wantErr: true},
		{name: "URL without scheme", url: "example.com", wantErr: true},
		{name: "URL with invalid scheme", url: "ftp://example.com", wantErr: true},
		{name: "URL without host", url: "https://", wantErr: true},
		{name: "URL too long", url: "https://example.com/" + strings.Repeat("a", 2100), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateURL() expected error, got nil")
					return
				}
				if !apperrors.IsValidationError(err) {
					t.Errorf("ValidateURL() expected validation error, got %T", err)
				}
			} else if err != nil {
				t.Errorf("ValidateURL() unexpected error = %v", err)
			}
		})
	}
}

func TestParseHours(t *testing.T) {
	whitelist := model.DefaultLinkPolicy()
	ranged := model.DefaultLinkPolicy()
	ranged.HoursMode = model.HoursModeRange

	tests := []struct {
		name    string
		input   string
		policy  model.LinkPolicy
		want    int
		wantErr bool
	}{
		{name: "whitelisted value", input: "4", policy: whitelist, want: 4},
		{name: "whitelisted value with spaces", input: " 24 ", policy: whitelist, want: 24},
		{name: "not in whitelist", input: "3", policy: whitelist, wantErr: true},
		{name: "far out of whitelist", input: "99", policy: whitelist, wantErr: true},
		{name: "range accepts odd value", input: "3", policy: ranged, want: 3},
		{name: "range lower bound", input: "2", policy: ranged, want: 2},
		{name: "range below bound", input: "1", policy: ranged, wantErr: true},
		{name: "range above bound", input: "25", policy: ranged, wantErr: true},
		{name: "not a number", input: "four", policy: whitelist, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHours(tt.input, tt.policy)
			if tt.wantErr {
				if !apperrors.IsValidationError(err) {
					t.Errorf("ParseHours(%q) expected validation error, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHours(%q) unexpected error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseHours(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseClicks(t *testing.T) {
	capped := model.DefaultLinkPolicy()
	unbounded := model.DefaultLinkPolicy()
	unbounded.MaxClicks = 0

	tests := []struct {
		name    string
		input   string
		policy  model.LinkPolicy
		want    int
		wantErr bool
	}{
		{name: "one click", input: "1", policy: capped, want: 1},
		{name: "at cap", input: "10", policy: capped, want: 10},
		{name: "over cap", input: "11", policy: capped, wantErr: true},
		{name: "zero", input: "0", policy: capped, wantErr: true},
		{name: "negative", input: "-3", policy: unbounded, wantErr: true},
		{name: "unbounded large", input: "5000", policy: unbounded, want: 5000},
		{name: "garbage", input: "lots", policy: unbounded, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClicks(tt.input, tt.policy)
			if tt.wantErr {
				if !apperrors.IsValidationError(err) {
					t.Errorf("ParseClicks(%q) expected validation error, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClicks(%q) unexpected error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseClicks(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "normal string", input: "https://example.com", expected: "https://example.com"},
		{name: "string with spaces", input: "  https://example.com  ", expected: "https://example.com"},
		{name: "string with control characters", input: "https://example.com\x00\x01\x02", expected: "https://example.com"},
		{name: "string with tabs and newlines", input: "https://example.com\t\n\r", expected: "https://example.com"},
		{name: "only spaces", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeInput(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeInput() = %q, want %q", result, tt.expected)
			}
		})
	}
}
