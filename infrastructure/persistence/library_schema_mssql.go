package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureLibrarySchemaMSSQL creates dbo.favorites and dbo.history when missing.
func EnsureLibrarySchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createIfMissing := func(table, ddl string) error {
		q := fmt.Sprintf(`IF OBJECT_ID('%s', 'U') IS NULL BEGIN %s END`, table, ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure table %s: %w", table, err)
		}
		return nil
	}
	if err := createIfMissing("dbo.favorites", `CREATE TABLE dbo.[favorites] (
  user_id NVARCHAR(128) NOT NULL,
  video_id NVARCHAR(64) NOT NULL,
  title NVARCHAR(512) NOT NULL DEFAULT '',
  channel_title NVARCHAR(255) NOT NULL DEFAULT '',
  thumbnail NVARCHAR(1024) NOT NULL DEFAULT '',
  genre NVARCHAR(128) NOT NULL DEFAULT '',
  added_at BIGINT NOT NULL,
  CONSTRAINT PK_favorites PRIMARY KEY (user_id, video_id)
)`); err != nil {
		return err
	}
	if err := createIfMissing("dbo.history", `CREATE TABLE dbo.[history] (
  id BIGINT IDENTITY(1,1) PRIMARY KEY,
  user_id NVARCHAR(128) NOT NULL,
  video_id NVARCHAR(64) NOT NULL,
  title NVARCHAR(512) NOT NULL DEFAULT '',
  channel_title NVARCHAR(255) NOT NULL DEFAULT '',
  thumbnail NVARCHAR(1024) NOT NULL DEFAULT '',
  genre NVARCHAR(128) NOT NULL DEFAULT '',
  played_at BIGINT NOT NULL
)`); err != nil {
		return err
	}
	return nil
}
