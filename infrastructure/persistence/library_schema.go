package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"karaoke-browser/infrastructure/logger"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// EnsureLibrarySchema creates the favorites and history tables if not exists
func EnsureLibrarySchema(db *sql.DB, dialect string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	historyID := "id BIGSERIAL PRIMARY KEY"
	if dialect == DialectSQLite {
		historyID = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS favorites (
            user_id TEXT NOT NULL,
            video_id TEXT NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            channel_title TEXT NOT NULL DEFAULT '',
            thumbnail TEXT NOT NULL DEFAULT '',
            genre TEXT NOT NULL DEFAULT '',
            added_at BIGINT NOT NULL,
            PRIMARY KEY (user_id, video_id)
        )`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS history (
            %s,
            user_id TEXT NOT NULL,
            video_id TEXT NOT NULL,
            title TEXT NOT NULL DEFAULT '',
            channel_title TEXT NOT NULL DEFAULT '',
            thumbnail TEXT NOT NULL DEFAULT '',
            genre TEXT NOT NULL DEFAULT '',
            played_at BIGINT NOT NULL
        )`, historyID),
	}
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create library schema: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_history_user_played ON history (user_id, played_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_history_user_played")
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_favorites_user_added ON favorites (user_id, added_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_favorites_user_added")
	}
	return nil
}
