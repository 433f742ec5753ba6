package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/joestump/vidshare/internal/store"
	"github.com/joestump/vidshare/internal/testutil"
)

type ledgerEnv struct {
	db      *sqlx.DB
	records *store.RecordStore
	likes   *store.LikeStore
	clicks  *store.ClickStore
	stats   *store.StatsStore
	videoID int64 // videos/a.mp4, regular
	adID    int64 // ads/b.mp4, advertisement
}

// newLedgerEnv seeds the two-record catalog used throughout the ledger tests.
func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	env := &ledgerEnv{
		db:      db,
		records: store.NewRecordStore(db),
		likes:   store.NewLikeStore(db),
		clicks:  store.NewClickStore(db),
		stats:   store.NewStatsStore(db),
	}

	ctx := context.Background()
	_, err := env.records.InsertMissing(ctx, []store.CatalogEntry{
		{Filename: "videos/a.mp4"},
		{Filename: "ads/b.mp4", IsAd: true},
	})
	if err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	records, err := env.records.ListAll(ctx)
	if err != nil {
		t.Fatalf("list catalog: %v", err)
	}
	env.videoID, env.adID = records[0].ID, records[1].ID
	return env
}

func (e *ledgerEnv) toggle(t *testing.T, user string, id int64) store.ToggleResult {
	t.Helper()
	res, err := e.likes.Toggle(context.Background(), user, id)
	if err != nil {
		t.Fatalf("Toggle(%q, %d): %v", user, id, err)
	}
	return res
}

// assertCounterMatchesRows checks total_likes == number of like rows.
func (e *ledgerEnv) assertCounterMatchesRows(t *testing.T, id int64) {
	t.Helper()
	ctx := context.Background()
	r, err := e.records.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	n, err := e.likes.CountForRecord(ctx, id)
	if err != nil {
		t.Fatalf("CountForRecord: %v", err)
	}
	if r.TotalLikes != n {
		t.Errorf("record %d: total_likes = %d, like rows = %d", id, r.TotalLikes, n)
	}
}

func TestToggle_LikeThenUnlike(t *testing.T) {
	env := newLedgerEnv(t)

	got := env.toggle(t, "u1", env.videoID)
	if !got.Liked || got.TotalLikes != 1 {
		t.Errorf("first toggle = %+v, want liked with 1", got)
	}

	got = env.toggle(t, "u1", env.videoID)
	if got.Liked || got.TotalLikes != 0 {
		t.Errorf("second toggle = %+v, want unliked with 0", got)
	}
	env.assertCounterMatchesRows(t, env.videoID)
}

func TestToggle_Scenario(t *testing.T) {
	env := newLedgerEnv(t)

	steps := []struct {
		user      string
		wantLiked bool
		wantTotal int64
	}{
		{"u1", true, 1},
		{"u2", true, 2},
		{"u1", false, 1},
	}
	for i, s := range steps {
		got := env.toggle(t, s.user, env.videoID)
		if got.Liked != s.wantLiked || got.TotalLikes != s.wantTotal {
			t.Errorf("step %d (%s): got %+v, want liked=%v total=%d", i, s.user, got, s.wantLiked, s.wantTotal)
		}
	}
	env.assertCounterMatchesRows(t, env.videoID)
}

func TestToggle_UnknownRecord(t *testing.T) {
	env := newLedgerEnv(t)
	_, err := env.likes.Toggle(context.Background(), "u1", 9999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestToggle_MissingUser(t *testing.T) {
	env := newLedgerEnv(t)
	_, err := env.likes.Toggle(context.Background(), "", env.videoID)
	if !errors.Is(err, store.ErrMissingUser) {
		t.Errorf("err = %v, want ErrMissingUser", err)
	}
}

func TestToggle_CounterNeverNegative(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()

	env.toggle(t, "u1", env.videoID)

	// Desynchronize: the counter drops to 0 while the like row survives.
	if _, err := env.db.ExecContext(ctx, `UPDATE records SET total_likes = 0`); err != nil {
		t.Fatalf("zero counter: %v", err)
	}

	got := env.toggle(t, "u1", env.videoID)
	if got.Liked {
		t.Error("liked = true, want false (the like row still existed)")
	}
	if got.TotalLikes != 0 {
		t.Errorf("total_likes = %d, want 0", got.TotalLikes)
	}
}

func TestToggle_ExternallyDeletedLike(t *testing.T) {
	env := newLedgerEnv(t)
	ctx := context.Background()

	env.toggle(t, "u1", env.videoID)
	if _, err := env.db.ExecContext(ctx, `DELETE FROM user_likes`); err != nil {
		t.Fatalf("delete likes: %v", err)
	}

	// The like row is the source of truth: the next toggle likes again.
	got := env.toggle(t, "u1", env.videoID)
	if !got.Liked {
		t.Error("liked = false, want true")
	}
	if got.TotalLikes < 0 {
		t.Errorf("total_likes = %d, want non-negative", got.TotalLikes)
	}
}

func TestToggle_ConcurrentUsersSameRecord(t *testing.T) {
	env := newLedgerEnv(t)
	const users = 20

	var wg sync.WaitGroup
	errs := make(chan error, users)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := env.likes.Toggle(context.Background(), fmt.Sprintf("user-%d", i), env.videoID); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent Toggle: %v", err)
	}

	r, err := env.records.GetByID(context.Background(), env.videoID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if r.TotalLikes != users {
		t.Errorf("total_likes = %d, want %d", r.TotalLikes, users)
	}
	env.assertCounterMatchesRows(t, env.videoID)
}

func TestLikedRecordIDs(t *testing.T) {
	env := newLedgerEnv(t)
	env.toggle(t, "u1", env.adID)
	env.toggle(t, "u2", env.videoID)

	liked, err := env.likes.LikedRecordIDs(context.Background(), "u1")
	if err != nil {
		t.Fatalf("LikedRecordIDs: %v", err)
	}
	if !liked[env.adID] || liked[env.videoID] {
		t.Errorf("liked = %v, want only %d", liked, env.adID)
	}
}
