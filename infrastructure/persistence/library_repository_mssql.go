package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/logger"
)

// LibraryRepositoryMSSQL implements favorites and history for SQL Server/Azure SQL using database/sql.
type LibraryRepositoryMSSQL struct {
	db  *sql.DB
	now func() time.Time
}

func NewLibraryRepositoryMSSQL(db *sql.DB) repository.ILibrary {
	return &LibraryRepositoryMSSQL{db: db, now: time.Now}
}

func (r *LibraryRepositoryMSSQL) AddFavorite(ctx context.Context, userID string, video model.VideoSummary) error {
	_, err := r.db.ExecContext(ctx, `IF NOT EXISTS (SELECT 1 FROM dbo.[favorites] WHERE user_id=@p1 AND video_id=@p2)
INSERT INTO dbo.[favorites] (user_id, video_id, title, channel_title, thumbnail, genre, added_at)
VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7)`,
		userID, video.ExternalID, video.Title, video.ChannelLabel, video.ThumbnailURL, video.CategoryLabel,
		r.now().UnixMilli())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: insert favorite failed")
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *LibraryRepositoryMSSQL) RemoveFavorite(ctx context.Context, userID, videoID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[favorites] WHERE user_id=@p1 AND video_id=@p2`, userID, videoID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (r *LibraryRepositoryMSSQL) IsFavorite(ctx context.Context, userID, videoID string) (bool, error) {
	var n int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM dbo.[favorites] WHERE user_id=@p1 AND video_id=@p2`, userID, videoID)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return n > 0, nil
}

func (r *LibraryRepositoryMSSQL) ListFavorites(ctx context.Context, userID string, limit int) ([]model.FavoriteRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT TOP (@p2) user_id, video_id, title, channel_title, thumbnail, genre, added_at
FROM dbo.[favorites]
WHERE user_id=@p1
ORDER BY added_at DESC`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()
	return scanFavorites(rows)
}

func (r *LibraryRepositoryMSSQL) AddHistory(ctx context.Context, userID string, video model.VideoSummary) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO dbo.[history] (user_id, video_id, title, channel_title, thumbnail, genre, played_at)
VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7)`,
		userID, video.ExternalID, video.Title, video.ChannelLabel, video.ThumbnailURL, video.CategoryLabel,
		r.now().UnixMilli())
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: insert history failed")
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *LibraryRepositoryMSSQL) ListHistory(ctx context.Context, userID string, limit int) ([]model.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT TOP (@p2) id, user_id, video_id, title, channel_title, thumbnail, genre, played_at
FROM dbo.[history]
WHERE user_id=@p1
ORDER BY played_at DESC, id DESC`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

func (r *LibraryRepositoryMSSQL) ClearHistory(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM dbo.[history] WHERE user_id=@p1`, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
