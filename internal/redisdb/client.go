package redisdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Проверяем, что RedisClient реализует интерфейс
var _ LinkStore = (*RedisClient)(nil)

// RedisClient - хранилище ссылок на основе Redis
type RedisClient struct {
	client     *redis.Client
	keyBuilder *KeyBuilder
}

// RedisConfig - конфигурация для Redis
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	Namespace    string // опциональный namespace для ключей
}

// LinkHash - поля хэша link:{token}
type LinkHash struct {
	Destination     string
	ExpiresAt       int64 // unix, секунды
	ClicksRemaining int
}

// ConsumeOutcome - результат атомарного списания клика
type ConsumeOutcome int

const (
	ConsumeMissing ConsumeOutcome = iota - 1
	ConsumeExhausted
	ConsumeOK
)

// Скрипты выполняются в Redis атомарно, поэтому проверка и изменение
// счетчика не разделяются другими клиентами.
var (
	createLinkScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'destination', ARGV[1], 'expires_at', ARGV[2], 'clicks_remaining', ARGV[3])
redis.call('EXPIREAT', KEYS[1], ARGV[2])
return 1
`)

	consumeLinkScript = redis.NewScript(`
local left = redis.call('HGET', KEYS[1], 'clicks_remaining')
if not left then
	return {-1, ''}
end
if tonumber(left) <= 0 then
	redis.call('DEL', KEYS[1])
	return {0, ''}
end
redis.call('HINCRBY', KEYS[1], 'clicks_remaining', -1)
return {1, redis.call('HGET', KEYS[1], 'destination')}
`)
)

// NewRedisClient создает новый Redis клиент
func NewRedisClient(cfg RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Проверяем подключение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, NewRedisError("connect", "", fmt.Errorf("failed to connect to Redis: %w", err))
	}

	return &RedisClient{
		client:     client,
		keyBuilder: NewKeyBuilder(cfg.Namespace),
	}, nil
}

// CreateLink сохраняет ссылку, если токен свободен. Возвращает false при коллизии.
func (r *RedisClient) CreateLink(ctx context.Context, token string, link LinkHash) (bool, error) {
	if token == "" {
		return false, NewRedisError("create", token, ErrInvalidKey)
	}

	key := r.keyBuilder.Link(token)
	created, err := createLinkScript.Run(ctx, r.client, []string{key},
		link.Destination,
		strconv.FormatInt(link.ExpiresAt, 10),
		link.ClicksRemaining,
	).Int()
	if err != nil {
		return false, NewRedisError("create", key, err)
	}

	return created == 1, nil
}

// GetLink читает хэш ссылки
func (r *RedisClient) GetLink(ctx context.Context, token string) (*LinkHash, error) {
	if token == "" {
		return nil, NewRedisError("get", token, ErrInvalidKey)
	}

	key := r.keyBuilder.Link(token)
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, NewRedisError("get", key, err)
	}
	if len(fields) == 0 {
		return nil, ErrKeyMissing
	}

	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, NewRedisError("get", key, fmt.Errorf("bad expires_at: %w", err))
	}
	clicks, err := strconv.Atoi(fields["clicks_remaining"])
	if err != nil {
		return nil, NewRedisError("get", key, fmt.Errorf("bad clicks_remaining: %w", err))
	}

	return &LinkHash{
		Destination:     fields["destination"],
		ExpiresAt:       expiresAt,
		ClicksRemaining: clicks,
	}, nil
}

// ConsumeLink списывает один клик или удаляет исчерпанную ссылку
func (r *RedisClient) ConsumeLink(ctx context.Context, token string) (ConsumeOutcome, string, error) {
	if token == "" {
		return ConsumeMissing, "", NewRedisError("consume", token, ErrInvalidKey)
	}

	key := r.keyBuilder.Link(token)
	reply, err := consumeLinkScript.Run(ctx, r.client, []string{key}).Slice()
	if err != nil {
		return ConsumeMissing, "", NewRedisError("consume", key, err)
	}
	if len(reply) != 2 {
		return ConsumeMissing, "", NewRedisError("consume", key, ErrUnexpectedReply)
	}

	code, ok := reply[0].(int64)
	if !ok {
		return ConsumeMissing, "", NewRedisError("consume", key, ErrUnexpectedReply)
	}
	destination, _ := reply[1].(string)

	switch code {
	case 1:
		return ConsumeOK, destination, nil
	case 0:
		return ConsumeExhausted, "", nil
	default:
		return ConsumeMissing, "", nil
	}
}

// DeleteLink удаляет ссылку; отсутствие ключа не ошибка
func (r *RedisClient) DeleteLink(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	key := r.keyBuilder.Link(token)
	if err := r.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return NewRedisError("delete", key, err)
	}

	return nil
}

// HealthCheck проверяет соединение с Redis
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewRedisError("ping", "", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func (r *RedisClient) Close() error {
	if err := r.client.Close(); err != nil {
		return NewRedisError("close", "", err)
	}
	return nil
}

// Info возвращает версию Redis сервера для /health
func (r *RedisClient) Info(ctx context.Context) (string, error) {
	info, err := r.client.InfoMap(ctx, "server").Result()
	if err != nil {
		return "", NewRedisError("info", "", err)
	}
	return info["Server"]["redis_version"], nil
}
