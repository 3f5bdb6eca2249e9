package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinic-finance/backend/internal/application/adapter"
)

// RedisReportLock implements adapter.ReportLock with SET NX.
type RedisReportLock struct {
	client *redis.Client
}

// NewRedisReportLock creates a new Redis report lock.
func NewRedisReportLock(client *redis.Client) *RedisReportLock {
	return &RedisReportLock{client: client}
}

// Acquire sets key only if it does not exist yet.
func (l *RedisReportLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// MemoryReportLock is a process-local ReportLock used when Redis is not configured.
type MemoryReportLock struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewMemoryReportLock creates an empty in-memory lock.
func NewMemoryReportLock() *MemoryReportLock {
	return &MemoryReportLock{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Acquire takes key unless it is held and not expired.
func (l *MemoryReportLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, ok := l.expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	l.expires[key] = now.Add(ttl)
	return true, nil
}

// Ensure implementations satisfy interfaces.
var (
	_ adapter.ReportLock = (*RedisReportLock)(nil)
	_ adapter.ReportLock = (*MemoryReportLock)(nil)
)
