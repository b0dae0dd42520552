package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"karaoke-browser/domain/dto"
	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"
)

// Session is the browsing state of one front end: the active query, the
// accumulated result set and its continuation token.
type Session struct {
	id        string
	fetcher   IFetcher
	publisher repository.IEventPublisher
	now       func() time.Time

	mu            sync.Mutex
	generation    uint64
	query         string
	category      model.Category
	items         []model.VideoSummary
	nextPageToken string
	lastErr       string
	loading       bool
	loadingMore   bool
	fromCache     bool
	lastSeen      time.Time
}

func NewSession(id string, category model.Category, fetcher IFetcher, publisher repository.IEventPublisher) *Session {
	s := &Session{
		id:        id,
		fetcher:   fetcher,
		publisher: publisher,
		now:       time.Now,
		category:  category,
	}
	s.lastSeen = s.now()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Category returns the category whose label new results get.
func (s *Session) Category() model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// FetchFresh replaces the result set with the first page of query. A newer
// FetchFresh started before this one returns makes it return ErrSuperseded
// without touching the session.
func (s *Session) FetchFresh(ctx context.Context, query string, category model.Category) (dto.SessionSnapshot, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.Snapshot(), model.ErrEmptyQuery
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.query = query
	s.category = category
	s.nextPageToken = ""
	s.lastErr = ""
	s.loading = true
	s.loadingMore = false
	s.fromCache = false
	s.lastSeen = s.now()
	s.mu.Unlock()

	page, fromCache, err := s.fetcher.FirstPage(ctx, s.id, query)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		logger.GetLogger().
			WithField("session", s.id).
			WithField("query", query).
			Info("Discarding superseded fresh fetch")
		return s.Snapshot(), model.ErrSuperseded
	}
	s.loading = false
	if err != nil {
		s.items = nil
		s.lastErr = userMessage(err)
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.publish(ctx, model.KaraokeEvent{Type: model.EventFetchFailed, Query: query, Message: snap.Error})
		return snap, err
	}
	s.items = labelVideos(page.Items, category.Name)
	s.nextPageToken = page.NextPageToken
	s.fromCache = fromCache
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, model.KaraokeEvent{Type: model.EventResultsReplaced, Query: query, Count: len(snap.Items)})
	return snap, nil
}

// FetchMore appends the next page. It does nothing when there is no
// continuation token or another load-more is running, and it never reports
// provider failures.
func (s *Session) FetchMore(ctx context.Context) (dto.LoadMoreResult, error) {
	s.mu.Lock()
	s.lastSeen = s.now()
	if s.nextPageToken == "" || s.loadingMore {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return dto.LoadMoreResult{Skipped: true, Snapshot: snap}, nil
	}
	s.loadingMore = true
	gen := s.generation
	query := s.query
	token := s.nextPageToken
	label := s.category.Name
	s.mu.Unlock()

	page, err := s.fetcher.NextPage(ctx, s.id, query, token)

	s.mu.Lock()
	if gen != s.generation {
		// The fresh fetch that bumped the generation already reset loadingMore.
		s.mu.Unlock()
		return dto.LoadMoreResult{Skipped: true, Snapshot: s.Snapshot()}, model.ErrSuperseded
	}
	s.loadingMore = false
	if err != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		logger.GetLogger().
			WithField("error", err).
			WithField("session", s.id).
			WithField("query", query).
			Warn("Load more failed")
		return dto.LoadMoreResult{Snapshot: snap}, nil
	}
	before := len(s.items)
	s.items = MergeVideos(s.items, labelVideos(page.Items, label))
	s.nextPageToken = page.NextPageToken
	appended := len(s.items) - before
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(ctx, model.KaraokeEvent{Type: model.EventResultsAppended, Query: query, Count: appended})
	return dto.LoadMoreResult{Appended: appended, Snapshot: snap}, nil
}

func (s *Session) Snapshot() dto.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() dto.SessionSnapshot {
	return dto.SessionSnapshot{
		SessionID:     s.id,
		Query:         s.query,
		Category:      s.category,
		Items:         copyVideos(s.items),
		NextPageToken: s.nextPageToken,
		HasMore:       s.nextPageToken != "",
		Loading:       s.loading,
		LoadingMore:   s.loadingMore,
		Error:         s.lastErr,
		Generation:    s.generation,
		FromCache:     s.fromCache,
	}
}

// IdleSince reports when the session was last used.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) publish(ctx context.Context, evt model.KaraokeEvent) {
	if s.publisher == nil {
		return
	}
	evt.SessionID = s.id
	evt.At = s.now()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.GetLogger().WithField("error", err).WithField("event", evt.Type).Warn("Failed to publish event")
	}
}

func labelVideos(in []model.VideoSummary, label string) []model.VideoSummary {
	out := make([]model.VideoSummary, 0, len(in))
	for _, v := range in {
		out = append(out, v.WithCategory(label))
	}
	return out
}

// userMessage is what the front end shows for a failed fresh fetch.
func userMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrCredentialsExhausted), errors.Is(err, model.ErrNoResults):
		return err.Error()
	default:
		return ClassifyError(err).Message
	}
}
