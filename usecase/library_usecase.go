package usecase

import (
	"context"
	"fmt"
	"strings"

	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"
)

const (
	defaultLibraryLimit = 50
	maxLibraryLimit     = 200
)

// ILibraryUseCase defines per-user favorites and history operations
type ILibraryUseCase interface {
	// ToggleFavorite adds or removes the video and reports whether it is now a favorite.
	ToggleFavorite(ctx context.Context, userID string, video model.VideoSummary) (bool, error)
	ListFavorites(ctx context.Context, userID string, limit int) ([]model.FavoriteRecord, error)
	// RecordPlay appends to history; it is a no-op without a user.
	RecordPlay(ctx context.Context, userID string, video model.VideoSummary) error
	ListHistory(ctx context.Context, userID string, limit int) ([]model.HistoryRecord, error)
	ClearHistory(ctx context.Context, userID string) error
}

// LibraryUseCase implements ILibraryUseCase
type LibraryUseCase struct {
	library repository.ILibrary
}

// NewLibraryUseCase creates a new library use case instance
func NewLibraryUseCase(library repository.ILibrary) ILibraryUseCase {
	return &LibraryUseCase{library: library}
}

func (u *LibraryUseCase) ToggleFavorite(ctx context.Context, userID string, video model.VideoSummary) (bool, error) {
	if userID == "" {
		return false, model.ErrUnauthenticated
	}
	if strings.TrimSpace(video.ExternalID) == "" {
		return false, model.ErrInvalidVideo
	}

	exists, err := u.library.IsFavorite(ctx, userID, video.ExternalID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	if exists {
		if err := u.library.RemoveFavorite(ctx, userID, video.ExternalID); err != nil {
			return true, fmt.Errorf("failed to remove favorite: %w", err)
		}
		return false, nil
	}
	if err := u.library.AddFavorite(ctx, userID, video); err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

func (u *LibraryUseCase) ListFavorites(ctx context.Context, userID string, limit int) ([]model.FavoriteRecord, error) {
	if userID == "" {
		return []model.FavoriteRecord{}, nil
	}
	favs, err := u.library.ListFavorites(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favs, nil
}

func (u *LibraryUseCase) RecordPlay(ctx context.Context, userID string, video model.VideoSummary) error {
	if userID == "" {
		return nil
	}
	if strings.TrimSpace(video.ExternalID) == "" {
		return model.ErrInvalidVideo
	}
	if err := u.library.AddHistory(ctx, userID, video); err != nil {
		// Playback goes on even when history cannot be written.
		logger.GetLogger().WithField("error", err).WithField("videoId", video.ExternalID).Warn("Failed to record play")
	}
	return nil
}

func (u *LibraryUseCase) ListHistory(ctx context.Context, userID string, limit int) ([]model.HistoryRecord, error) {
	if userID == "" {
		return []model.HistoryRecord{}, nil
	}
	hist, err := u.library.ListHistory(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return hist, nil
}

func (u *LibraryUseCase) ClearHistory(ctx context.Context, userID string) error {
	if userID == "" {
		return model.ErrUnauthenticated
	}
	if err := u.library.ClearHistory(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLibraryLimit
	}
	if limit > maxLibraryLimit {
		return maxLibraryLimit
	}
	return limit
}
