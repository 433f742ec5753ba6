package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAnAd is returned when an ad click references a regular video.
	ErrNotAnAd = errors.New("not an advertisement")

	// ErrMissingUser is returned when a ledger write has no user identifier.
	ErrMissingUser = errors.New("user id is required")
)

// CatalogStore is what the catalog reconciler needs from persistence.
// RecordStore is the sqlx-backed implementation.
type CatalogStore interface {
	InsertMissing(ctx context.Context, entries []CatalogEntry) (*InsertResult, error)
	ListAll(ctx context.Context) ([]*Record, error)
}
