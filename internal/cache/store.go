package cache

import (
	"context"
	"time"
)

// ZMember is a sorted-set member with its score
type ZMember struct {
	Member string
	Score  float64
}

// Store is the shared key-value store used for result caching and
// rate-limit bookkeeping. Implementations must be safe for concurrent use.
// Callers treat every error as a cache miss or a rate-limit allow: store
// unavailability must never fail a request.
type Store interface {
	// Get returns the raw value and whether the key exists
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set writes a value with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a single key
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix removes all keys with the given prefix and returns the count
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	// Sorted-set primitives, used only by the rate limiter
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZCard(ctx context.Context, key string) (int64, error)
	ZRemRangeByScore(ctx context.Context, key string, min, max float64) (int64, error)
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Ping reports whether the store is reachable
	Ping(ctx context.Context) error
}
