package utils

import (
	"strings"
	"testing"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if len(token) != DefaultTokenLength {
		t.Errorf("GenerateToken() length = %d, want %d", len(token), DefaultTokenLength)
	}

	for _, char := range token {
		if !strings.ContainsRune(alphabet, char) {
			t.Errorf("GenerateToken() contains invalid character: %c", char)
		}
	}
}

func TestGenerateTokenWithLength(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		wantErr bool
	}{
		{"length 6", 6, false},
		{"length 7", 7, false},
		{"length 8", 8, false},
		{"too short", 5, true},
		{"too long", 12, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateTokenWithLength(tt.length)
			if tt.wantErr {
				if err == nil {
					t.Errorf("GenerateTokenWithLength(%d) expected error", tt.length)
				}
				return
			}
			if err != nil {
				t.Errorf("GenerateTokenWithLength(%d) error = %v", tt.length, err)
				return
			}

			if len(token) != tt.length {
				t.Errorf("GenerateTokenWithLength(%d) length = %d, want %d", tt.length, len(token), tt.length)
			}

			if !IsValidToken(token) {
				t.Errorf("GenerateTokenWithLength(%d) produced invalid token %q", tt.length, token)
			}
		})
	}
}

func TestGenerateTokenUniqueness(t *testing.T) {
	generated := make(map[string]bool)
	iterations := 10000

	for i := 0; i < iterations; i++ {
		token, err := GenerateToken()
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}

		if generated[token] {
			t.Errorf("GenerateToken() generated duplicate: %s", token)
		}
		generated[token] = true
	}
}

func TestIsValidToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"abc_12-X", true},
		{"abcdef", true},
		{"abcde", false},
		{"abcdefghi", false},
		{"abc/def", false},
		{"abc def", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidToken(tt.token); got != tt.want {
			t.Errorf("IsValidToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
