package persistence

//go:generate mockgen -destination=mock/mock_store.go -package=mockpersistence -source=store.go

import (
	"context"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
)

// Store is the key-value storage the worker writes to
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
}

// RedisStoreConfig holds configuration for the Redis store
type RedisStoreConfig struct {
	Client    redis.UniversalClient
	KeyPrefix string
}

type redisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Store that keeps each key as a plain Redis string
func NewRedisStore(cfg *RedisStoreConfig) Store {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	prefix := cfg.KeyPrefix
	if prefix != "" {
		prefix += ":"
	}

	return &redisStore{client: cfg.Client, prefix: prefix}
}

// Save overwrites the key; saved state never expires
func (s *redisStore) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return apperrors.InvalidArgument("key is required")
	}
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return apperrors.Wrapf(err, "failed to save %s", key)
	}
	return nil
}
