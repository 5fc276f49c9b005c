package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces. Consumers
// depend on the narrow sub-interfaces, not on Store itself.
type Store interface {
	Pinger
	HashStore
	SortedSetStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based entity storage.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	// HSetNX writes a single field only if it is still absent.
	// Returns true when this call performed the write.
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
}

// SortedSetStore provides recency indexes backed by sorted sets.
type SortedSetStore interface {
	ZAdd(ctx context.Context, key, member string, score float64) error
	// ZRevRange returns up to limit members ordered by descending score.
	ZRevRange(ctx context.Context, key string, limit int) ([]string, error)
}
