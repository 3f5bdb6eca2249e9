// Package cache implements Redis-backed coordination primitives.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateStore counts attempts in fixed windows shared by every API instance.
type RedisRateStore struct {
	client *redis.Client
}

// NewRedisRateStore creates a new Redis rate store.
func NewRedisRateStore(client *redis.Client) *RedisRateStore {
	return &RedisRateStore{client: client}
}

// Allow increments the counter of key and reports whether it is within maxAttempts.
// The window starts with the first attempt.
func (s *RedisRateStore) Allow(ctx context.Context, key string, maxAttempts int, window time.Duration) (bool, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(maxAttempts), nil
}
