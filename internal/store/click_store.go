package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ClickStore is the sqlx-backed store for the append-only ad click log.
type ClickStore struct {
	db *sqlx.DB
}

// NewClickStore creates a new ClickStore.
func NewClickStore(db *sqlx.DB) *ClickStore {
	return &ClickStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *ClickStore) q(query string) string { return s.db.Rebind(query) }

// RecordAdClick appends one click row. Clicks are not deduplicated.
// Returns ErrNotFound for an unknown record and ErrNotAnAd for a regular video;
// in both cases nothing is written.
func (s *ClickStore) RecordAdClick(ctx context.Context, userID string, recordID int64) error {
	if userID == "" {
		return ErrMissingUser
	}

	var isAd bool
	err := s.db.GetContext(ctx, &isAd, s.q(`SELECT is_ad FROM records WHERE id = ?`), recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !isAd {
		return ErrNotAnAd
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO ad_clicks (user_id, video_id, created_at) VALUES (?, ?, ?)
	`), userID, recordID, time.Now().UTC())
	return err
}

// CountForRecord returns the number of clicks recorded against recordID.
func (s *ClickStore) CountForRecord(ctx context.Context, recordID int64) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM ad_clicks WHERE video_id = ?`), recordID)
	return n, err
}
