package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Record is one cataloged video or advertisement file.
type Record struct {
	ID         int64  `db:"id"`
	Filename   string `db:"filename"`
	IsAd       bool   `db:"is_ad"`
	TotalLikes int64  `db:"total_likes"`
}

// CatalogEntry is a file discovered on disk, keyed by its relative path.
type CatalogEntry struct {
	Filename string
	IsAd     bool
}

// EntryError is a per-file insert failure. It does not abort the batch.
type EntryError struct {
	Entry CatalogEntry
	Err   error
}

func (e EntryError) Error() string { return e.Entry.Filename + ": " + e.Err.Error() }

func (e EntryError) Unwrap() error { return e.Err }

// InsertResult summarizes one InsertMissing batch.
type InsertResult struct {
	Added  int
	Failed []EntryError
}

// RecordStore is the sqlx-backed store for the video catalog.
type RecordStore struct {
	db *sqlx.DB
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *sqlx.DB) *RecordStore {
	return &RecordStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *RecordStore) q(query string) string { return s.db.Rebind(query) }

// ListAll returns every record in insertion order.
func (s *RecordStore) ListAll(ctx context.Context) ([]*Record, error) {
	var records []*Record
	err := s.db.SelectContext(ctx, &records,
		`SELECT id, filename, is_ad, total_likes FROM records ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID returns the record matching id, or ErrNotFound.
func (s *RecordStore) GetByID(ctx context.Context, id int64) (*Record, error) {
	var r Record
	err := s.db.GetContext(ctx, &r,
		s.q(`SELECT id, filename, is_ad, total_likes FROM records WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Count returns the number of cataloged records.
func (s *RecordStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM records`)
	return n, err
}

// InsertMissing inserts every entry whose filename is not yet cataloged, in
// one transaction. Existing rows are never touched, so their ids, is_ad flags
// and like counters survive every refresh. Each insert runs under a savepoint;
// a failed insert is rolled back to it, reported in InsertResult.Failed, and
// the rest of the batch proceeds.
func (s *RecordStore) InsertMissing(ctx context.Context, entries []CatalogEntry) (*InsertResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt := tx.Rebind(s.insertIgnoreSQL())
	res := &InsertResult{}
	for _, e := range entries {
		n, err := insertEntry(ctx, tx, stmt, e)
		if err != nil {
			if _, rbErr := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT catalog_entry`); rbErr != nil {
				return nil, fmt.Errorf("rollback %s: %w", e.Filename, rbErr)
			}
			res.Failed = append(res.Failed, EntryError{Entry: e, Err: err})
			continue
		}
		res.Added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// insertEntry inserts one entry inside its own savepoint. On error the
// savepoint is left open for the caller to roll back to.
func insertEntry(ctx context.Context, tx *sqlx.Tx, stmt string, e CatalogEntry) (int64, error) {
	if _, err := tx.ExecContext(ctx, `SAVEPOINT catalog_entry`); err != nil {
		return 0, err
	}
	r, err := tx.ExecContext(ctx, stmt, e.Filename, e.IsAd)
	if err != nil {
		return 0, err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT catalog_entry`); err != nil {
		return 0, err
	}
	return n, nil
}

// insertIgnoreSQL spells insert-if-absent for the active driver. Only a
// duplicate filename is ignored; any other error still surfaces.
func (s *RecordStore) insertIgnoreSQL() string {
	if s.db.DriverName() == "mysql" {
		return `INSERT INTO records (filename, is_ad, total_likes) VALUES (?, ?, 0) ON DUPLICATE KEY UPDATE id = id`
	}
	return `INSERT INTO records (filename, is_ad, total_likes) VALUES (?, ?, 0) ON CONFLICT (filename) DO NOTHING`
}
