package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ToggleResult is the like state after a toggle, read back from the database.
type ToggleResult struct {
	Liked      bool
	TotalLikes int64
}

// LikeStore is the sqlx-backed store for per-user likes and the
// records.total_likes counter derived from them.
type LikeStore struct {
	db *sqlx.DB
}

// NewLikeStore creates a new LikeStore.
func NewLikeStore(db *sqlx.DB) *LikeStore {
	return &LikeStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *LikeStore) q(query string) string { return s.db.Rebind(query) }

// Toggle flips userID's like on recordID and adjusts the record's counter.
//
// The whole check-then-write sequence runs in one transaction whose first
// statement write-locks the record row, so concurrent toggles on the same
// record are applied one after another. The decrement is guarded at zero.
// Returns ErrNotFound if the record does not exist.
func (s *LikeStore) Toggle(ctx context.Context, userID string, recordID int64) (ToggleResult, error) {
	if userID == "" {
		return ToggleResult{}, ErrMissingUser
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ToggleResult{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		tx.Rebind(`UPDATE records SET total_likes = total_likes WHERE id = ?`), recordID); err != nil {
		return ToggleResult{}, err
	}

	var total int64
	err = tx.GetContext(ctx, &total, tx.Rebind(`SELECT total_likes FROM records WHERE id = ?`), recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return ToggleResult{}, ErrNotFound
	}
	if err != nil {
		return ToggleResult{}, err
	}

	res, err := tx.ExecContext(ctx,
		tx.Rebind(`DELETE FROM user_likes WHERE user_id = ? AND video_id = ?`), userID, recordID)
	if err != nil {
		return ToggleResult{}, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return ToggleResult{}, err
	}

	liked := removed == 0
	if liked {
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO user_likes (user_id, video_id, created_at) VALUES (?, ?, ?)
		`), userID, recordID, time.Now().UTC())
		if err != nil {
			return ToggleResult{}, err
		}
		_, err = tx.ExecContext(ctx,
			tx.Rebind(`UPDATE records SET total_likes = total_likes + 1 WHERE id = ?`), recordID)
	} else {
		_, err = tx.ExecContext(ctx,
			tx.Rebind(`UPDATE records SET total_likes = total_likes - 1 WHERE id = ? AND total_likes > 0`), recordID)
	}
	if err != nil {
		return ToggleResult{}, err
	}

	if err := tx.GetContext(ctx, &total,
		tx.Rebind(`SELECT total_likes FROM records WHERE id = ?`), recordID); err != nil {
		return ToggleResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Liked: liked, TotalLikes: total}, nil
}

// LikedRecordIDs returns the ids of every record userID currently likes.
func (s *LikeStore) LikedRecordIDs(ctx context.Context, userID string) (map[int64]bool, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids, s.q(`SELECT video_id FROM user_likes WHERE user_id = ?`), userID)
	if err != nil {
		return nil, err
	}
	liked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// CountForRecord returns the number of like rows referencing recordID.
func (s *LikeStore) CountForRecord(ctx context.Context, recordID int64) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM user_likes WHERE video_id = ?`), recordID)
	return n, err
}
