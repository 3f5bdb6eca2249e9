// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/clinic-finance/backend/internal/domain/error"
	"github.com/clinic-finance/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxAttempts is the default number of allowed attempts per window.
	defaultMaxAttempts = 5
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute
)

// RateStore counts attempts per key in fixed windows.
type RateStore interface {
	Allow(ctx context.Context, key string, maxAttempts int, window time.Duration) (bool, error)
}

// RateLimiter limits requests per authenticated user, or per IP when anonymous.
type RateLimiter struct {
	store          RateStore
	scope          string
	maxAttempts    int
	windowDuration time.Duration
}

// NewRateLimiter creates a new in-memory rate limiter with default settings.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(NewMemoryRateStore(), "default", defaultMaxAttempts, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates a new rate limiter with custom settings.
func NewRateLimiterWithConfig(store RateStore, scope string, maxAttempts int, windowDuration time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if windowDuration <= 0 {
		windowDuration = defaultWindowDuration
	}
	return &RateLimiter{
		store:          store,
		scope:          scope,
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// A failing store lets the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting in E2E mode
		if os.Getenv("E2E_MODE") == "true" {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", rl.scope, clientKey(c))
		allowed, err := rl.store.Allow(c.Request.Context(), key, rl.maxAttempts, rl.windowDuration)
		if err != nil {
			LoggerFromContext(c).Warn("Rate limit store unavailable", "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientKey(c *gin.Context) string {
	if userID, ok := GetUserIDFromContext(c); ok && userID != uuid.Nil {
		return "user:" + userID.String()
	}
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}
	return "ip:" + clientIP
}

// rateLimitEntry tracks rate limit data for a single key.
type rateLimitEntry struct {
	attempts  int
	resetTime time.Time
}

// MemoryRateStore is a process-local RateStore used when Redis is not configured.
type MemoryRateStore struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
}

// NewMemoryRateStore creates an empty in-memory store.
func NewMemoryRateStore() *MemoryRateStore {
	return &MemoryRateStore{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

// Allow checks if a request from the given key should be allowed.
func (s *MemoryRateStore) Allow(_ context.Context, key string, maxAttempts int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, exists := s.entries[key]
	if !exists || now.After(entry.resetTime) {
		s.entries[key] = &rateLimitEntry{
			attempts:  1,
			resetTime: now.Add(window),
		}
		return true, nil
	}

	if entry.attempts < maxAttempts {
		entry.attempts++
		return true, nil
	}

	return false, nil
}

// Reset clears the store state (useful for testing).
func (s *MemoryRateStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*rateLimitEntry)
}

// Cleanup removes expired entries (can be called periodically to free memory).
func (s *MemoryRateStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.resetTime) {
			delete(s.entries, key)
		}
	}
}
