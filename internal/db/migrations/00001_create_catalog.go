package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCatalog, downCreateCatalog)
}

func upCreateCatalog(ctx context.Context, tx *sql.Tx) error {
	for _, stmt := range catalogUpStmts() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create catalog: %w", err)
		}
	}
	return nil
}

func downCreateCatalog(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"ad_clicks", "user_likes", "records"} {
		if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
			return err
		}
	}
	return nil
}

func catalogUpStmts() []string {
	switch dialect {
	case "postgres":
		return []string{
			`CREATE TABLE IF NOT EXISTS records (
    id          BIGSERIAL PRIMARY KEY,
    filename    TEXT NOT NULL UNIQUE,
    is_ad       BOOLEAN NOT NULL DEFAULT FALSE,
    total_likes BIGINT NOT NULL DEFAULT 0 CHECK (total_likes >= 0)
)`,
			`CREATE TABLE IF NOT EXISTS user_likes (
    id         BIGSERIAL PRIMARY KEY,
    user_id    TEXT NOT NULL,
    video_id   BIGINT NOT NULL REFERENCES records (id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, video_id)
)`,
			`CREATE TABLE IF NOT EXISTS ad_clicks (
    id         BIGSERIAL PRIMARY KEY,
    user_id    TEXT NOT NULL,
    video_id   BIGINT NOT NULL REFERENCES records (id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS user_likes_video_idx ON user_likes (video_id)`,
			`CREATE INDEX IF NOT EXISTS ad_clicks_video_idx ON ad_clicks (video_id)`,
		}

	case "mysql":
		return []string{
			`CREATE TABLE IF NOT EXISTS records (
    id          BIGINT AUTO_INCREMENT PRIMARY KEY,
    filename    VARCHAR(512) NOT NULL UNIQUE,
    is_ad       BOOLEAN NOT NULL DEFAULT FALSE,
    total_likes BIGINT UNSIGNED NOT NULL DEFAULT 0
)`,
			`CREATE TABLE IF NOT EXISTS user_likes (
    id         BIGINT AUTO_INCREMENT PRIMARY KEY,
    user_id    VARCHAR(191) NOT NULL,
    video_id   BIGINT NOT NULL,
    created_at TIMESTAMP(6) NOT NULL,
    UNIQUE KEY user_likes_user_video (user_id, video_id),
    KEY user_likes_video_idx (video_id),
    FOREIGN KEY (video_id) REFERENCES records (id) ON DELETE CASCADE
)`,
			`CREATE TABLE IF NOT EXISTS ad_clicks (
    id         BIGINT AUTO_INCREMENT PRIMARY KEY,
    user_id    VARCHAR(191) NOT NULL,
    video_id   BIGINT NOT NULL,
    created_at TIMESTAMP(6) NOT NULL,
    KEY ad_clicks_video_idx (video_id),
    FOREIGN KEY (video_id) REFERENCES records (id) ON DELETE CASCADE
)`,
		}

	default: // sqlite3
		return []string{
			`CREATE TABLE IF NOT EXISTS records (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    filename    TEXT NOT NULL UNIQUE,
    is_ad       BOOLEAN NOT NULL DEFAULT 0,
    total_likes INTEGER NOT NULL DEFAULT 0 CHECK (total_likes >= 0)
)`,
			`CREATE TABLE IF NOT EXISTS user_likes (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    TEXT NOT NULL,
    video_id   INTEGER NOT NULL REFERENCES records (id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL,
    UNIQUE (user_id, video_id)
)`,
			`CREATE TABLE IF NOT EXISTS ad_clicks (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    TEXT NOT NULL,
    video_id   INTEGER NOT NULL REFERENCES records (id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS user_likes_video_idx ON user_likes (video_id)`,
			`CREATE INDEX IF NOT EXISTS ad_clicks_video_idx ON ad_clicks (video_id)`,
		}
	}
}
