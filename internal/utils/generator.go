package utils

import (
	"crypto/rand"
	"fmt"
)

const (
	DefaultTokenLength = 8
	MinTokenLength     = 6
	MaxTokenLength     = 8
	// URL-safe алфавит из 64 символов, индекс берется из младших 6 бит
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
)

func GenerateToken() (string, error) {
	return GenerateTokenWithLength(DefaultTokenLength)
}

func GenerateTokenWithLength(length int) (string, error) {
	if length < MinTokenLength || length > MaxTokenLength {
		return "", fmt.Errorf("token length %d out of range [%d, %d]", length, MinTokenLength, MaxTokenLength)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = alphabet[b&63]
	}

	return string(buf), nil
}

// IsValidToken проверяет формат токена без обращения к хранилищу
func IsValidToken(token string) bool {
	if len(token) < MinTokenLength || len(token) > MaxTokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
