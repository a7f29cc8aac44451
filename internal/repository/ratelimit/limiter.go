// Package ratelimit counts requests in fixed windows on the store's KV commands.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/vidshare/internal/db"
)

// store is the consumer interface for counter operations (ISP).
type store interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Limiter allows up to limit hits per key within window.
type Limiter struct {
	store  store
	prefix string
	limit  int64
	window time.Duration
}

// New creates a fixed-window limiter. Keys are stored under <keyPrefix>ratelimit:<name>:.
func New(s store, keyPrefix, name string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		store:  s,
		prefix: keyPrefix + "ratelimit:" + name + ":",
		limit:  int64(limit),
		window: window,
	}
}

// Allow records a hit for key. When the window is exhausted it returns false and
// the time left until the window resets.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := l.prefix + key
	n, err := l.store.IncrBy(ctx, k, 1)
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit INCRBY %s: %w", k, err)
	}

	// The window starts with the first hit; NX keeps later hits from extending it.
	if err := l.store.Expire(ctx, k, l.window, true); err != nil {
		return false, 0, fmt.Errorf("ratelimit EXPIRE %s: %w", k, err)
	}

	if n <= l.limit {
		return true, 0, nil
	}

	ttl, err := l.store.TTL(ctx, k)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return true, 0, nil
		}
		return false, 0, fmt.Errorf("ratelimit PTTL %s: %w", k, err)
	}
	if ttl <= 0 {
		ttl = l.window
	}
	return false, ttl, nil
}
