package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Stats is the engagement summary over advertisement records only.
type Stats struct {
	TotalAdLikes          int64
	UniqueUsersLikedAds   int64
	TotalAdClicks         int64
	UniqueUsersClickedAds int64
	Ads                   []AdStat
}

// AdStat is one advertisement's row in the stats breakdown.
type AdStat struct {
	ID       int64  `db:"id"`
	Filename string `db:"filename"`
	Likes    int64  `db:"total_likes"`
	Clicks   int64  `db:"clicks"`
}

// StatsStore computes engagement aggregates and resets the ledger.
type StatsStore struct {
	db *sqlx.DB
}

// NewStatsStore creates a new StatsStore.
func NewStatsStore(db *sqlx.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Stats computes the ad summary inside one transaction so every figure comes
// from the same snapshot. Ads are ordered by likes descending, then by id.
func (s *StatsStore) Stats(ctx context.Context) (*Stats, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	st := &Stats{}
	scalars := []struct {
		dst   *int64
		query string
	}{
		{&st.TotalAdLikes, `SELECT COALESCE(SUM(total_likes), 0) FROM records WHERE is_ad = ?`},
		{&st.UniqueUsersLikedAds, `
			SELECT COUNT(DISTINCT l.user_id) FROM user_likes l
			INNER JOIN records r ON r.id = l.video_id
			WHERE r.is_ad = ?`},
		{&st.TotalAdClicks, `
			SELECT COUNT(*) FROM ad_clicks c
			INNER JOIN records r ON r.id = c.video_id
			WHERE r.is_ad = ?`},
		{&st.UniqueUsersClickedAds, `
			SELECT COUNT(DISTINCT c.user_id) FROM ad_clicks c
			INNER JOIN records r ON r.id = c.video_id
			WHERE r.is_ad = ?`},
	}
	for _, sc := range scalars {
		if err := tx.GetContext(ctx, sc.dst, tx.Rebind(sc.query), true); err != nil {
			return nil, err
		}
	}

	err = tx.SelectContext(ctx, &st.Ads, tx.Rebind(`
		SELECT r.id, r.filename, r.total_likes,
		       (SELECT COUNT(*) FROM ad_clicks c WHERE c.video_id = r.id) AS clicks
		FROM records r
		WHERE r.is_ad = ?
		ORDER BY r.total_likes DESC, r.id ASC
	`), true)
	if err != nil {
		return nil, err
	}
	if st.Ads == nil {
		st.Ads = []AdStat{}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return st, nil
}

// ResetAll deletes every like and click and zeroes all counters. Records keep
// their ids and filenames.
func (s *StatsStore) ResetAll(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM user_likes`,
		`DELETE FROM ad_clicks`,
		`UPDATE records SET total_likes = 0`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}
