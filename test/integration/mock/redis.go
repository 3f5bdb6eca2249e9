package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce   sync.Once
	redisServer *miniredis.Miniredis
	redisClient *redis.Client
)

// NewRedis returns a client bound to a process-wide miniredis instance that
// backs the rate limiter and the report lock.
func NewRedis() *redis.Client {
	redisOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic(err)
		}
		redisServer = server
		redisClient = redis.NewClient(&redis.Options{Addr: server.Addr()})
	})
	return redisClient
}

// ClearRedis drops rate limit counters and report locks between scenarios.
func ClearRedis(client *redis.Client) error {
	return client.FlushAll(context.Background()).Err()
}

// RedisKeyExists reports whether key is currently stored.
func RedisKeyExists(key string) bool {
	if redisServer == nil {
		return false
	}
	return redisServer.Exists(key)
}
