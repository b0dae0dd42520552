package http_test

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"karaoke-browser/domain/dto"
	"karaoke-browser/domain/model"
)

// MockKaraokeUseCase is a mock implementation of usecase.IKaraokeUseCase
type MockKaraokeUseCase struct {
	mock.Mock
}

func (m *MockKaraokeUseCase) Categories() []model.Category {
	args := m.Called()
	return args.Get(0).([]model.Category)
}

func (m *MockKaraokeUseCase) CreateSession(ctx context.Context) dto.SessionSnapshot {
	args := m.Called(ctx)
	return args.Get(0).(dto.SessionSnapshot)
}

func (m *MockKaraokeUseCase) BrowseCategory(ctx context.Context, sessionID, categoryID string) (dto.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID, categoryID)
	return args.Get(0).(dto.SessionSnapshot), args.Error(1)
}

func (m *MockKaraokeUseCase) Search(ctx context.Context, sessionID, query string) (dto.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID, query)
	return args.Get(0).(dto.SessionSnapshot), args.Error(1)
}

func (m *MockKaraokeUseCase) LoadMore(ctx context.Context, sessionID string) (dto.LoadMoreResult, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(dto.LoadMoreResult), args.Error(1)
}

func (m *MockKaraokeUseCase) Snapshot(ctx context.Context, sessionID string) (dto.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(dto.SessionSnapshot), args.Error(1)
}

func (m *MockKaraokeUseCase) QuotaStatus() model.RotationStatus {
	args := m.Called()
	return args.Get(0).(model.RotationStatus)
}

func (m *MockKaraokeUseCase) PruneIdle(now time.Time, idle time.Duration) int {
	args := m.Called(now, idle)
	return args.Int(0)
}

// MockLibraryUseCase is a mock implementation of usecase.ILibraryUseCase
type MockLibraryUseCase struct {
	mock.Mock
}

func (m *MockLibraryUseCase) ToggleFavorite(ctx context.Context, userID string, video model.VideoSummary) (bool, error) {
	args := m.Called(ctx, userID, video)
	return args.Bool(0), args.Error(1)
}

func (m *MockLibraryUseCase) ListFavorites(ctx context.Context, userID string, limit int) ([]model.FavoriteRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FavoriteRecord), args.Error(1)
}

func (m *MockLibraryUseCase) RecordPlay(ctx context.Context, userID string, video model.VideoSummary) error {
	args := m.Called(ctx, userID, video)
	return args.Error(0)
}

func (m *MockLibraryUseCase) ListHistory(ctx context.Context, userID string, limit int) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryRecord), args.Error(1)
}

func (m *MockLibraryUseCase) ClearHistory(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type stubStreamer struct {
	served []string
}

func (s *stubStreamer) Serve(c *gin.Context, sessionID string) {
	s.served = append(s.served, sessionID)
	c.String(200, "stream")
}
