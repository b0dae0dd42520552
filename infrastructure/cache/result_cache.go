package cache

import (
	"context"
	"encoding/json"
	"time"

	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"
)

const (
	DefaultPrefix = "yt_karaoke_v1_"
	DefaultTTL    = 2 * time.Hour
)

// envelope is the stored form of a page: {"data": {...}, "expiry": <epoch ms>}.
type envelope struct {
	Data   model.CacheEntry `json:"data"`
	Expiry int64            `json:"expiry"`
}

// ResultCache is a TTL cache of first result pages on top of a key-value store
type ResultCache struct {
	store  repository.IKeyValueStore
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewResultCache creates a result cache. Zero prefix/ttl take the defaults.
func NewResultCache(store repository.IKeyValueStore, prefix string, ttl time.Duration) *ResultCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{store: store, prefix: prefix, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (c *ResultCache) WithClock(now func() time.Time) *ResultCache {
	c.now = now
	return c
}

func (c *ResultCache) Get(ctx context.Context, fingerprint string) (*model.CacheEntry, bool) {
	key := c.prefix + fingerprint
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("key", key).Warn("Result cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.GetLogger().WithField("error", err).WithField("key", key).Warn("Dropping unreadable cache entry")
		c.remove(ctx, key)
		return nil, false
	}
	if c.now().UnixMilli() > env.Expiry {
		c.remove(ctx, key)
		return nil, false
	}

	entry := env.Data
	entry.ExpiresAt = time.UnixMilli(env.Expiry)
	return &entry, true
}

func (c *ResultCache) Put(ctx context.Context, fingerprint string, items []model.VideoSummary, continuationToken string) {
	key := c.prefix + fingerprint
	raw, err := json.Marshal(envelope{
		Data:   model.CacheEntry{Items: items, ContinuationToken: continuationToken},
		Expiry: c.now().Add(c.ttl).UnixMilli(),
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to encode cache entry")
		return
	}

	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		// Recovery is all or nothing: wipe the store and drop this write.
		logger.GetLogger().WithField("error", err).WithField("key", key).Warn("Result cache write failed, clearing store")
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			logger.GetLogger().WithField("error", clearErr).Error("Failed to clear result cache")
		}
	}
}

func (c *ResultCache) remove(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		logger.GetLogger().WithField("error", err).WithField("key", key).Warn("Failed to delete cache entry")
	}
}
