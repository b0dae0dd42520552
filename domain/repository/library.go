package repository

import (
	"context"

	"karaoke-browser/domain/model"
)

// ILibrary defines per-user favorites and play history storage
type ILibrary interface {
	// AddFavorite is idempotent per (user, video).
	AddFavorite(ctx context.Context, userID string, video model.VideoSummary) error
	RemoveFavorite(ctx context.Context, userID, videoID string) error
	IsFavorite(ctx context.Context, userID, videoID string) (bool, error)
	// ListFavorites returns newest first.
	ListFavorites(ctx context.Context, userID string, limit int) ([]model.FavoriteRecord, error)

	AddHistory(ctx context.Context, userID string, video model.VideoSummary) error
	// ListHistory returns newest first.
	ListHistory(ctx context.Context, userID string, limit int) ([]model.HistoryRecord, error)
	ClearHistory(ctx context.Context, userID string) error
}

// IEventPublisher delivers session and quota events
type IEventPublisher interface {
	Publish(ctx context.Context, evt model.KaraokeEvent) error
}
