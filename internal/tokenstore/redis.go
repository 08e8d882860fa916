package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/estatery/realty-client/internal/config"
)

// RedisStore хранит токен в redis под ключом "<namespace>:auth_token".
// Используется, когда клиент работает в общем окружении и файловая
// система не подходит.
type RedisStore struct {
	db  *redis.Client
	key string
}

// NewRedisStore подключается к redis и проверяет соединение.
func NewRedisStore(ctx context.Context, cfg config.RedisConnection, namespace string) (*RedisStore, error) {
	const op = "tokenstore.NewRedisStore"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{db: db, key: namespace + ":auth_token"}, nil
}

// NewRedisStoreWithClient оборачивает уже созданный клиент redis.
// Нужен тестам, которые поднимают miniredis.
func NewRedisStoreWithClient(db *redis.Client, namespace string) *RedisStore {
	return &RedisStore{db: db, key: namespace + ":auth_token"}
}

// Get возвращает сохранённый токен или ErrNotFound.
func (s *RedisStore) Get(ctx context.Context) (string, error) {
	const op = "tokenstore.RedisStore.Get"
	val, err := s.db.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

// Set сохраняет токен без срока жизни: валидность определяет бэкенд,
// а не хранилище.
func (s *RedisStore) Set(ctx context.Context, token string) error {
	const op = "tokenstore.RedisStore.Set"
	if err := s.db.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет токен. Отсутствие ключа не является ошибкой.
func (s *RedisStore) Delete(ctx context.Context) error {
	const op = "tokenstore.RedisStore.Delete"
	if err := s.db.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
