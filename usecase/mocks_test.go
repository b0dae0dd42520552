package usecase_test

import (
	"context"
	"sync"

	"karaoke-browser/domain/dto"
	"karaoke-browser/domain/model"

	"github.com/stretchr/testify/mock"
)

// Mock implementations
type MockVideoSearch struct {
	mock.Mock
}

func (m *MockVideoSearch) Search(ctx context.Context, req dto.VideoSearchRequest) (*model.SearchPage, error) {
	args := m.Called(ctx, req)
	page, _ := args.Get(0).(*model.SearchPage)
	return page, args.Error(1)
}

type MockLibrary struct {
	mock.Mock
}

func (m *MockLibrary) AddFavorite(ctx context.Context, userID string, video model.VideoSummary) error {
	return m.Called(ctx, userID, video).Error(0)
}

func (m *MockLibrary) RemoveFavorite(ctx context.Context, userID, videoID string) error {
	return m.Called(ctx, userID, videoID).Error(0)
}

func (m *MockLibrary) IsFavorite(ctx context.Context, userID, videoID string) (bool, error) {
	args := m.Called(ctx, userID, videoID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLibrary) ListFavorites(ctx context.Context, userID string, limit int) ([]model.FavoriteRecord, error) {
	args := m.Called(ctx, userID, limit)
	favs, _ := args.Get(0).([]model.FavoriteRecord)
	return favs, args.Error(1)
}

func (m *MockLibrary) AddHistory(ctx context.Context, userID string, video model.VideoSummary) error {
	return m.Called(ctx, userID, video).Error(0)
}

func (m *MockLibrary) ListHistory(ctx context.Context, userID string, limit int) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, userID, limit)
	hist, _ := args.Get(0).([]model.HistoryRecord)
	return hist, args.Error(1)
}

func (m *MockLibrary) ClearHistory(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

// fakeCache is an in-memory IResultCache without expiry.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]model.CacheEntry
	puts    []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]model.CacheEntry)}
}

func (c *fakeCache) Get(ctx context.Context, fingerprint string) (*model.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	return &e, true
}

func (c *fakeCache) Put(ctx context.Context, fingerprint string, items []model.VideoSummary, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts = append(c.puts, fingerprint)
	c.entries[fingerprint] = model.CacheEntry{Items: items, ContinuationToken: token}
}

func (c *fakeCache) putCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.puts)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.KaraokeEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, evt model.KaraokeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type staticCatalog struct {
	categories []model.Category
}

func (c staticCatalog) List() []model.Category { return c.categories }

func (c staticCatalog) Get(id string) (model.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return model.Category{}, false
}

func (c staticCatalog) Default() model.Category { return c.categories[0] }

func withKey(key string) interface{} {
	return mock.MatchedBy(func(r dto.VideoSearchRequest) bool { return r.APIKey == key })
}

func withQuery(query string) interface{} {
	return mock.MatchedBy(func(r dto.VideoSearchRequest) bool { return r.Query == query })
}

func withToken(token string) interface{} {
	return mock.MatchedBy(func(r dto.VideoSearchRequest) bool { return r.PageToken == token })
}

func videos(prefix string, n int) []model.VideoSummary {
	out := make([]model.VideoSummary, 0, n)
	for i := 0; i < n; i++ {
		id := prefix + string(rune('a'+i))
		out = append(out, model.VideoSummary{ExternalID: id, Title: "Song " + id})
	}
	return out
}

func quotaErr(reason string) error {
	return &model.ProviderError{StatusCode: 403, Reason: reason, Message: "quota problem: " + reason}
}
