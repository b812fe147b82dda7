package repository

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryRateLimiter keeps a token bucket per key. It serves both as a
// standalone limiter and as the fallback behind the Redis one.
type MemoryRateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{}
}

func (l *MemoryRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return l.getLimiter(key, limit, window).Allow(), nil
}

func (l *MemoryRateLimiter) getLimiter(key string, limit int, window time.Duration) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}

	lim := rate.NewLimiter(rate.Limit(float64(limit)/window.Seconds()), limit)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
