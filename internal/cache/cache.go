// Package cache provides the key/value+expiry port the leaderboard is
// computed behind. Implementations: Redis for deployments, an in-memory
// store with an injectable clock for tests and single-node setups.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the stored value and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
