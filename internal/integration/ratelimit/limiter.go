// Package ratelimit implements fixed-window request limiting.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Store counts hits per key inside a fixed window.
type Store interface {
	// Hit adds one hit to key and returns the count in the current window and
	// the time left until the window resets.
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter allows at most Max hits per key per Window.
type Limiter struct {
	store    Store
	fallback Store
	max      int
	window   time.Duration
	prefix   string
}

// NewLimiter creates a limiter. When primary fails the fallback store
// answers instead. fallback may be nil.
func NewLimiter(primary, fallback Store, prefix string, max int, window time.Duration) *Limiter {
	if primary == nil {
		primary = fallback
	}
	return &Limiter{
		store:    primary,
		fallback: fallback,
		max:      max,
		window:   window,
		prefix:   prefix,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	key = l.prefix + key

	count, resetIn, err := l.store.Hit(ctx, key, l.window)
	if err != nil {
		slog.Warn("Rate limit store unavailable, using fallback", "error", err)
		if l.fallback == nil || l.fallback == l.store {
			return Decision{Allowed: true, Limit: l.max, Remaining: l.max}
		}
		count, resetIn, err = l.fallback.Hit(ctx, key, l.window)
		if err != nil {
			return Decision{Allowed: true, Limit: l.max, Remaining: l.max}
		}
	}

	if count > int64(l.max) {
		return Decision{Allowed: false, Limit: l.max, RetryAfter: resetIn}
	}
	return Decision{Allowed: true, Limit: l.max, Remaining: l.max - int(count)}
}
