package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"karaoke-browser/domain/dto"
	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"

	"github.com/google/uuid"
)

// IKaraokeUseCase defines browsing operations keyed by session id
type IKaraokeUseCase interface {
	Categories() []model.Category
	CreateSession(ctx context.Context) dto.SessionSnapshot
	// BrowseCategory runs a fresh fetch of the category query.
	BrowseCategory(ctx context.Context, sessionID, categoryID string) (dto.SessionSnapshot, error)
	// Search runs a fresh fetch of free text, keeping the active category label.
	Search(ctx context.Context, sessionID, query string) (dto.SessionSnapshot, error)
	LoadMore(ctx context.Context, sessionID string) (dto.LoadMoreResult, error)
	Snapshot(ctx context.Context, sessionID string) (dto.SessionSnapshot, error)
	QuotaStatus() model.RotationStatus
	// PruneIdle drops sessions unused since before now-idle and returns how many.
	PruneIdle(now time.Time, idle time.Duration) int
}

// KaraokeUseCase implements IKaraokeUseCase
type KaraokeUseCase struct {
	fetcher   IFetcher
	catalog   repository.ICatalog
	publisher repository.IEventPublisher

	mu       sync.RWMutex
	sessions map[string]*Session
	newID    func() string
}

// NewKaraokeUseCase creates a new karaoke use case instance
func NewKaraokeUseCase(fetcher IFetcher, catalog repository.ICatalog, publisher repository.IEventPublisher) IKaraokeUseCase {
	return &KaraokeUseCase{
		fetcher:   fetcher,
		catalog:   catalog,
		publisher: publisher,
		sessions:  make(map[string]*Session),
		newID:     uuid.NewString,
	}
}

func (u *KaraokeUseCase) Categories() []model.Category {
	return u.catalog.List()
}

func (u *KaraokeUseCase) CreateSession(ctx context.Context) dto.SessionSnapshot {
	s := NewSession(u.newID(), u.catalog.Default(), u.fetcher, u.publisher)
	u.mu.Lock()
	u.sessions[s.ID()] = s
	u.mu.Unlock()

	logger.GetLogger().WithField("session", s.ID()).Info("Session created")
	return s.Snapshot()
}

func (u *KaraokeUseCase) BrowseCategory(ctx context.Context, sessionID, categoryID string) (dto.SessionSnapshot, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return dto.SessionSnapshot{}, err
	}
	category, ok := u.catalog.Get(categoryID)
	if !ok {
		return s.Snapshot(), model.ErrCategoryNotFound
	}
	return s.FetchFresh(ctx, category.Query, category)
}

func (u *KaraokeUseCase) Search(ctx context.Context, sessionID, query string) (dto.SessionSnapshot, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return dto.SessionSnapshot{}, err
	}
	if strings.TrimSpace(query) == "" {
		return s.Snapshot(), model.ErrEmptyQuery
	}
	return s.FetchFresh(ctx, query, s.Category())
}

func (u *KaraokeUseCase) LoadMore(ctx context.Context, sessionID string) (dto.LoadMoreResult, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return dto.LoadMoreResult{}, err
	}
	return s.FetchMore(ctx)
}

func (u *KaraokeUseCase) Snapshot(ctx context.Context, sessionID string) (dto.SessionSnapshot, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return dto.SessionSnapshot{}, err
	}
	return s.Snapshot(), nil
}

func (u *KaraokeUseCase) QuotaStatus() model.RotationStatus {
	return u.fetcher.RotationStatus()
}

func (u *KaraokeUseCase) PruneIdle(now time.Time, idle time.Duration) int {
	cutoff := now.Add(-idle)
	u.mu.Lock()
	defer u.mu.Unlock()
	pruned := 0
	for id, s := range u.sessions {
		if s.IdleSince().Before(cutoff) {
			delete(u.sessions, id)
			pruned++
		}
	}
	if pruned > 0 {
		logger.GetLogger().WithField("pruned", pruned).WithField("remaining", len(u.sessions)).Info("Pruned idle sessions")
	}
	return pruned
}

func (u *KaraokeUseCase) session(id string) (*Session, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	s, ok := u.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}
