package cache

import (
	"context"
	"time"
)

// Cache stores raw API responses between runs
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent or expired
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value for ttl; a zero ttl stores nothing
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Close() error
}
