package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/joestump/vidshare/internal/api"
	"github.com/joestump/vidshare/internal/auth"
	"github.com/joestump/vidshare/internal/store"
)

func TestStats_Empty(t *testing.T) {
	env := newTestEnv(t)
	rec := newBrowser(t, env.Router).do("GET", "/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var st api.StatsResponse
	decode(t, rec, &st)
	if st.TotalAdLikes != 0 || st.TotalAdClicks != 0 || st.UniqueUsersLikedAds != 0 || st.UniqueUsersClickedAds != 0 {
		t.Errorf("stats = %+v, want all zero", st)
	}
	if st.Ads == nil || len(st.Ads) != 0 {
		t.Errorf("ads = %#v, want empty non-nil list", st.Ads)
	}
}

func TestStats_Scenario(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedCatalog(t, "videos/a.mp4", "ads/b.mp4")
	a, b := ids["videos/a.mp4"], ids["ads/b.mp4"]
	c := newBrowser(t, env.Router)

	c.do("POST", "/like", like("u1", a))
	c.do("POST", "/like", like("u2", a))
	c.do("POST", "/like", like("u1", a))
	c.do("POST", "/like", like("u1", b))
	c.do("POST", "/like", like("u1", a))
	c.do("POST", "/ad_click", like("u1", b))
	c.do("POST", "/ad_click", like("u1", b))
	c.do("POST", "/ad_click", like("u2", b))

	var st api.StatsResponse
	decode(t, c.do("GET", "/stats", nil), &st)
	if st.TotalAdLikes != 1 || st.UniqueUsersLikedAds != 1 || st.TotalAdClicks != 3 || st.UniqueUsersClickedAds != 2 {
		t.Errorf("stats = %+v", st)
	}
	if len(st.Ads) != 1 {
		t.Fatalf("len(ads) = %d, want 1", len(st.Ads))
	}
	want := api.AdStatResponse{ID: b, Filename: "ads/b.mp4", Likes: 1, Clicks: 3}
	if st.Ads[0] != want {
		t.Errorf("ads[0] = %+v, want %+v", st.Ads[0], want)
	}
}

func TestReset_ClearsEngagementKeepsCatalog(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedCatalog(t, "videos/a.mp4", "ads/b.mp4")
	c := newBrowser(t, env.Router)
	c.do("POST", "/like", like("u1", ids["ads/b.mp4"]))
	c.do("POST", "/ad_click", like("u1", ids["ads/b.mp4"]))

	rec := c.do("POST", "/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var msg api.MessageResponse
	decode(t, rec, &msg)
	if msg.Message == "" {
		t.Error("empty reset message")
	}

	var st api.StatsResponse
	decode(t, c.do("GET", "/stats", nil), &st)
	if st.TotalAdLikes != 0 || st.TotalAdClicks != 0 || len(st.Ads) != 1 || st.Ads[0].Likes != 0 {
		t.Errorf("stats after reset = %+v", st)
	}

	var videos []api.VideoResponse
	decode(t, c.do("GET", "/videos", nil), &videos)
	if len(videos) != 2 {
		t.Errorf("len(videos) = %d, want 2 after reset", len(videos))
	}

	// Liking again starts from zero.
	var resp api.LikeResponse
	decode(t, c.do("POST", "/like", like("u1", ids["ads/b.mp4"])), &resp)
	if !resp.Liked || resp.TotalLikes != 1 {
		t.Errorf("like after reset = %+v, want liked with 1", resp)
	}
}

func TestRefreshVideos_AddsNewFilesOnly(t *testing.T) {
	env := newTestEnv(t)
	ids := env.seedCatalog(t, "videos/a.mp4")
	c := newBrowser(t, env.Router)
	c.do("POST", "/like", like("u1", ids["videos/a.mp4"]))

	env.addFile(t, "videos/c.webm")
	env.addFile(t, "ads/d.mp4")

	rec := c.do("POST", "/refresh_videos", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.RefreshResponse
	decode(t, rec, &resp)
	if resp.Added != 2 || resp.Discovered != 3 || resp.Missing != 0 {
		t.Errorf("refresh = %+v, want added=2 discovered=3 missing=0", resp)
	}

	decode(t, c.do("POST", "/refresh_videos", nil), &resp)
	if resp.Added != 0 {
		t.Errorf("second refresh added %d, want 0", resp.Added)
	}

	var videos []api.VideoResponse
	decode(t, c.do("GET", "/videos", nil), &videos)
	for _, v := range videos {
		if v.Filename == "videos/a.mp4" && v.TotalLikes != 1 {
			t.Errorf("videos/a.mp4 total_likes = %d after refresh, want 1", v.TotalLikes)
		}
	}
}

func TestStats_StorageFailureIsInternalError(t *testing.T) {
	mdb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer mdb.Close()
	db := sqlx.NewDb(mdb, "sqlite")
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	sm := scs.New()
	router := api.NewAPIRouter(api.Deps{
		Visitor:     auth.NewVisitor(sm),
		RecordStore: store.NewRecordStore(db),
		LikeStore:   store.NewLikeStore(db),
		ClickStore:  store.NewClickStore(db),
		StatsStore:  store.NewStatsStore(db),
	})

	rec := httptest.NewRecorder()
	sm.LoadAndSave(router).ServeHTTP(rec, httptest.NewRequest("GET", "/stats", nil))
	expectError(t, rec, http.StatusInternalServerError, "INTERNAL_ERROR")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
