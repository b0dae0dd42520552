package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"karaoke-browser/domain/model"
	"karaoke-browser/domain/repository"
)

const (
	qInsertFavorite = `INSERT INTO favorites (user_id, video_id, title, channel_title, thumbnail, genre, added_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (user_id, video_id) DO NOTHING`
	qDeleteFavorite = `DELETE FROM favorites WHERE user_id = ? AND video_id = ?`
	qExistsFavorite = `SELECT COUNT(1) FROM favorites WHERE user_id = ? AND video_id = ?`
	qListFavorites  = `SELECT user_id, video_id, title, channel_title, thumbnail, genre, added_at
        FROM favorites WHERE user_id = ? ORDER BY added_at DESC LIMIT ?`
	qInsertHistory = `INSERT INTO history (user_id, video_id, title, channel_title, thumbnail, genre, played_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
	qListHistory = `SELECT id, user_id, video_id, title, channel_title, thumbnail, genre, played_at
        FROM history WHERE user_id = ? ORDER BY played_at DESC, id DESC LIMIT ?`
	qClearHistory = `DELETE FROM history WHERE user_id = ?`
)

// LibraryRepository implements favorites and history on PostgreSQL or SQLite
type LibraryRepository struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

func NewLibraryRepository(db *sql.DB, dialect string) repository.ILibrary {
	return &LibraryRepository{db: db, dialect: dialect, now: time.Now}
}

func (r *LibraryRepository) q(query string) string {
	if r.dialect == DialectPostgres {
		return rebindDollar(query)
	}
	return query
}

func (r *LibraryRepository) AddFavorite(ctx context.Context, userID string, video model.VideoSummary) error {
	_, err := r.db.ExecContext(ctx, r.q(qInsertFavorite),
		userID, video.ExternalID, video.Title, video.ChannelLabel, video.ThumbnailURL, video.CategoryLabel,
		r.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *LibraryRepository) RemoveFavorite(ctx context.Context, userID, videoID string) error {
	if _, err := r.db.ExecContext(ctx, r.q(qDeleteFavorite), userID, videoID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (r *LibraryRepository) IsFavorite(ctx context.Context, userID, videoID string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, r.q(qExistsFavorite), userID, videoID).Scan(&n); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return n > 0, nil
}

func (r *LibraryRepository) ListFavorites(ctx context.Context, userID string, limit int) ([]model.FavoriteRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.q(qListFavorites), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()
	return scanFavorites(rows)
}

func (r *LibraryRepository) AddHistory(ctx context.Context, userID string, video model.VideoSummary) error {
	_, err := r.db.ExecContext(ctx, r.q(qInsertHistory),
		userID, video.ExternalID, video.Title, video.ChannelLabel, video.ThumbnailURL, video.CategoryLabel,
		r.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *LibraryRepository) ListHistory(ctx context.Context, userID string, limit int) ([]model.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.q(qListHistory), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

func (r *LibraryRepository) ClearHistory(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, r.q(qClearHistory), userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func scanFavorites(rows *sql.Rows) ([]model.FavoriteRecord, error) {
	list := []model.FavoriteRecord{}
	for rows.Next() {
		var rec model.FavoriteRecord
		var addedAt int64
		if err := rows.Scan(&rec.UserID, &rec.Video.ExternalID, &rec.Video.Title, &rec.Video.ChannelLabel,
			&rec.Video.ThumbnailURL, &rec.Video.CategoryLabel, &addedAt); err != nil {
			return nil, err
		}
		rec.AddedAt = time.UnixMilli(addedAt).UTC()
		list = append(list, rec)
	}
	return list, rows.Err()
}

func scanHistory(rows *sql.Rows) ([]model.HistoryRecord, error) {
	list := []model.HistoryRecord{}
	for rows.Next() {
		var rec model.HistoryRecord
		var id, playedAt int64
		if err := rows.Scan(&id, &rec.UserID, &rec.Video.ExternalID, &rec.Video.Title, &rec.Video.ChannelLabel,
			&rec.Video.ThumbnailURL, &rec.Video.CategoryLabel, &playedAt); err != nil {
			return nil, err
		}
		rec.ID = strconv.FormatInt(id, 10)
		rec.PlayedAt = time.UnixMilli(playedAt).UTC()
		list = append(list, rec)
	}
	return list, rows.Err()
}

// rebindDollar turns ? placeholders into $1..$n.
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
