// Package cache serves recruit reads through a byte cache backed by Redis.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss reports that a key is not cached.
var ErrMiss = errors.New("cache miss")

// Cache is a byte cache with per-key expiry.
type Cache interface {
	// Get returns ErrMiss when key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
