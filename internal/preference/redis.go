package preference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

const keyPrefix = "mediconnect:role:"

// RedisStore keeps preferences in redis so they survive restarts.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) GetRole(ctx context.Context, clientID string) (model.Role, bool, error) {
	v, err := s.client.Get(ctx, keyPrefix+clientID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read role preference: %w", err)
	}
	r := model.Role(v)
	return r, r.Valid(), nil
}

func (s *RedisStore) SetRole(ctx context.Context, clientID string, r model.Role) error {
	if err := s.client.Set(ctx, keyPrefix+clientID, string(r), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store role preference: %w", err)
	}
	return nil
}
