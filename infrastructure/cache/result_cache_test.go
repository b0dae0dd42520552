package cache_test

import (
	"context"
	"testing"
	"time"

	"karaoke-browser/domain/model"
	"karaoke-browser/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

var page = []model.VideoSummary{
	{ExternalID: "a", Title: "Song A", ChannelLabel: "Chan", ThumbnailURL: "http://h/a"},
	{ExternalID: "b", Title: "Song B", ChannelLabel: "Chan", ThumbnailURL: "http://h/b"},
}

func newCache(store *cache.MemoryStore) (*cache.ResultCache, *clock) {
	clk := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return cache.NewResultCache(store, "", 0).WithClock(clk.now), clk
}

func TestResultCache_HitWithinTTL(t *testing.T) {
	store := cache.NewMemoryStore(0)
	rc, clk := newCache(store)
	ctx := context.Background()

	rc.Put(ctx, "rock_first", page, "T1")

	clk.t = clk.t.Add(2*time.Hour - time.Minute)
	entry, ok := rc.Get(ctx, "rock_first")
	require.True(t, ok)
	assert.Equal(t, page, entry.Items)
	assert.Equal(t, "T1", entry.ContinuationToken)
	assert.Equal(t, time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC).UnixMilli(), entry.ExpiresAt.UnixMilli())

	// Stored under the prefixed key.
	_, found, err := store.Get(ctx, "yt_karaoke_v1_rock_first")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestResultCache_ExpiredEntryIsRemoved(t *testing.T) {
	store := cache.NewMemoryStore(0)
	rc, clk := newCache(store)
	ctx := context.Background()

	rc.Put(ctx, "rock_first", page, "T1")
	clk.t = clk.t.Add(2*time.Hour + time.Millisecond)

	_, ok := rc.Get(ctx, "rock_first")
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestResultCache_Miss(t *testing.T) {
	rc, _ := newCache(cache.NewMemoryStore(0))
	_, ok := rc.Get(context.Background(), "nothing_first")
	assert.False(t, ok)
}

func TestResultCache_CorruptEntryIsAMiss(t *testing.T) {
	store := cache.NewMemoryStore(0)
	rc, _ := newCache(store)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "yt_karaoke_v1_bad_first", []byte("{not json"), 0))

	_, ok := rc.Get(ctx, "bad_first")
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestResultCache_WriteFailureClearsEverything(t *testing.T) {
	// Room for one page only.
	store := cache.NewMemoryStore(400)
	rc, _ := newCache(store)
	ctx := context.Background()

	rc.Put(ctx, "a_first", page[:1], "")
	_, ok := rc.Get(ctx, "a_first")
	require.True(t, ok)

	rc.Put(ctx, "b_first", page, "TOKEN")

	_, ok = rc.Get(ctx, "a_first")
	assert.False(t, ok)
	_, ok = rc.Get(ctx, "b_first")
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestResultCache_CustomPrefixAndTTL(t *testing.T) {
	store := cache.NewMemoryStore(0)
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	rc := cache.NewResultCache(store, "kb_", time.Minute).WithClock(clk.now)
	ctx := context.Background()

	rc.Put(ctx, "x_first", page, "")
	_, found, _ := store.Get(ctx, "kb_x_first")
	assert.True(t, found)

	clk.t = clk.t.Add(61 * time.Second)
	_, ok := rc.Get(ctx, "x_first")
	assert.False(t, ok)
}

// ttlStore records the ttl each write was given.
type ttlStore struct {
	*cache.MemoryStore
	ttls []time.Duration
}

func (s *ttlStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.ttls = append(s.ttls, ttl)
	return s.MemoryStore.Set(ctx, key, value, ttl)
}

func TestResultCache_PassesTTLToStore(t *testing.T) {
	store := &ttlStore{MemoryStore: cache.NewMemoryStore(0)}
	ctx := context.Background()

	cache.NewResultCache(store, "", 0).Put(ctx, "rock_first", page, "T1")
	cache.NewResultCache(store, "", 15*time.Minute).Put(ctx, "pop_first", page, "")

	assert.Equal(t, []time.Duration{cache.DefaultTTL, 15 * time.Minute}, store.ttls)
}
