package repository

import (
	"context"
	"time"

	"karaoke-browser/domain/model"
)

// IResultCache defines the time-boxed cache of first result pages
type IResultCache interface {
	// Get returns the entry for a fingerprint. Absent, expired and unreadable
	// entries are reported as a miss; expired ones are removed.
	Get(ctx context.Context, fingerprint string) (*model.CacheEntry, bool)
	// Put stores a page with a TTL from now. A failed write clears the cache
	// and is otherwise dropped.
	Put(ctx context.Context, fingerprint string, items []model.VideoSummary, continuationToken string)
}

// IKeyValueStore is the raw storage behind IResultCache
type IKeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value. A positive ttl lets backends with native expiry evict
	// the key on their own; the others keep it until deleted or cleared.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key owned by the store.
	Clear(ctx context.Context) error
}
