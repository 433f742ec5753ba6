package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/joestump/vidshare/internal/api"
	"github.com/joestump/vidshare/internal/auth"
	"github.com/joestump/vidshare/internal/catalog"
	"github.com/joestump/vidshare/internal/config"
	"github.com/joestump/vidshare/internal/store"
	"github.com/joestump/vidshare/internal/testutil"
)

// testEnv holds the wired API router and the stores behind it.
type testEnv struct {
	Router      http.Handler
	Base        string
	Reconciler  *catalog.Reconciler
	RecordStore *store.RecordStore
	LikeStore   *store.LikeStore
	ClickStore  *store.ClickStore
}

// newTestEnv creates an in-memory SQLite database, two empty catalog roots
// under a temp dir and the full API router wrapped in an in-memory session.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	base := t.TempDir()

	records := store.NewRecordStore(db)
	likes := store.NewLikeStore(db)
	clicks := store.NewClickStore(db)
	scanner := catalog.NewScanner([]config.Root{
		{Dir: filepath.Join(base, "videos"), Prefix: "videos", Kind: config.KindRegular},
		{Dir: filepath.Join(base, "ads"), Prefix: "ads", Kind: config.KindAd},
	}, []string{".mp4", ".webm"}, "ad_")
	rec := catalog.NewReconciler(scanner, records)

	sm := scs.New()
	router := api.NewAPIRouter(api.Deps{
		Visitor:     auth.NewVisitor(sm),
		RecordStore: records,
		LikeStore:   likes,
		ClickStore:  clicks,
		StatsStore:  store.NewStatsStore(db),
		Refresher:   rec,
	})

	return &testEnv{
		Router:      sm.LoadAndSave(router),
		Base:        base,
		Reconciler:  rec,
		RecordStore: records,
		LikeStore:   likes,
		ClickStore:  clicks,
	}
}

// addFile creates an empty file under the temp catalog base.
func (e *testEnv) addFile(t *testing.T, rel string) {
	t.Helper()
	p := filepath.Join(e.Base, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// seedCatalog writes files and reconciles them, returning filename → id.
func (e *testEnv) seedCatalog(t *testing.T, rels ...string) map[string]int64 {
	t.Helper()
	for _, rel := range rels {
		e.addFile(t, rel)
	}
	if _, err := e.Reconciler.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	all, err := e.RecordStore.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ids := make(map[string]int64, len(all))
	for _, r := range all {
		ids[r.Filename] = r.ID
	}
	return ids
}

// browser replays session cookies across requests like a real client.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, handler: h}
}

func (b *browser) do(method, path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			b.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		b.cookies = cs
	}
	return rec
}

// decode unmarshals the recorder body into v, failing the test on error.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v; body: %s", err, rec.Body.String())
	}
}

// expectError asserts an error status and machine-readable code.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, status, rec.Body.String())
	}
	var resp api.ErrorResponse
	decode(t, rec, &resp)
	if resp.Code != code {
		t.Errorf("code = %q, want %q", resp.Code, code)
	}
	if resp.Error == "" {
		t.Error("error message is empty")
	}
}

func like(userID string, id int64) map[string]any {
	return map[string]any{"user_id": userID, "video_id": id}
}
