package repository

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverRateLimiter prefers the primary limiter (Redis) and falls
// back to the in-memory one when the primary errors. It retries the
// primary after a minute.
type FailoverRateLimiter struct {
	primary   domain.RateLimiter
	fallback  domain.RateLimiter
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64 // unix nanos of the last failed probe
}

func NewFailoverRateLimiter(primary, fallback domain.RateLimiter, logger *zerolog.Logger) *FailoverRateLimiter {
	return &FailoverRateLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if !r.isDown.Load() {
		allowed, err := r.primary.Allow(ctx, key, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("primary rate limiter failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck.Store(time.Now().UnixNano())
	}

	// Probe the primary again after a minute of downtime.
	if r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute {
		allowed, err := r.primary.Allow(ctx, key, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.Allow(ctx, key, limit, window)
}
