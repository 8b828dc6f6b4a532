package redisdb

import "errors"

// Ошибки Redis-хранилища
var (
	// ErrKeyMissing возникает когда ключ не найден
	ErrKeyMissing = errors.New("redis key missing")

	// ErrInvalidKey возникает при невалидном ключе
	ErrInvalidKey = errors.New("invalid redis key")

	// ErrUnexpectedReply возникает когда скрипт вернул ответ неизвестного формата
	ErrUnexpectedReply = errors.New("unexpected redis reply")
)

// RedisError - структурированная ошибка операции Redis
type RedisError struct {
	Op  string // Операция: "get", "create", "consume"
	Key string // Ключ
	Err error  // Оригинальная ошибка
}

func (e *RedisError) Error() string {
	if e.Key != "" {
		return "redis " + e.Op + " '" + e.Key + "': " + e.Err.Error()
	}
	return "redis " + e.Op + ": " + e.Err.Error()
}

func (e *RedisError) Unwrap() error {
	return e.Err
}

// NewRedisError создает новую структурированную ошибку
func NewRedisError(op, key string, err error) error {
	return &RedisError{
		Op:  op,
		Key: key,
		Err: err,
	}
}
