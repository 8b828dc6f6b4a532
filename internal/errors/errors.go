package errors

import (
	"errors"
	"fmt"
)

// Ошибки хранилища ссылок
var (
	ErrLinkNotFound  = errors.New("link not found")
	ErrLinkExhausted = errors.New("link click limit exhausted")
	ErrTokenExists   = errors.New("token already exists")
)

// Коды BusinessError
const (
	CodeTokenGeneration = "TOKEN_GENERATION"
	CodeDatabase        = "DATABASE_ERROR"
	CodeRedis           = "REDIS_ERROR"
)

// ValidationError - пользователь прислал некорректное значение.
// Message можно показывать пользователю как есть.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// BusinessError - сбой операции с кодом для логов
type BusinessError struct {
	Code    string
	Message string
	Cause   error
}

func (e *BusinessError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

func NewBusinessError(code, message string, cause error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError - ошибка конфигурации, с которой процесс не должен стартовать
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Message)
}

func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// GetBusinessError извлекает BusinessError из цепочки
func GetBusinessError(err error) *BusinessError {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}

// HasCode сообщает, есть ли в цепочке BusinessError с кодом code
func HasCode(err error, code string) bool {
	be := GetBusinessError(err)
	return be != nil && be.Code == code
}
