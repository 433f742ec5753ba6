package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joestump/vidshare/docs/swagger"
	"github.com/joestump/vidshare/internal/api"
	"github.com/joestump/vidshare/internal/auth"
	"github.com/joestump/vidshare/internal/config"
	"github.com/joestump/vidshare/internal/store"
	"github.com/joestump/vidshare/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager    *scs.SessionManager
	Roots             []config.Root
	RecordStore       *store.RecordStore
	LikeStore         *store.LikeStore
	ClickStore        *store.ClickStore
	StatsStore        *store.StatsStore
	Refresher         api.Refresher
	AdminPollInterval time.Duration
}

// NewRouter assembles the full chi router with all middleware and routes.
// Fixed routes are registered before the per-root media routes; config
// rejects root prefixes that would shadow them.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(deps.SessionManager.LoadAndSave)

	visitor := auth.NewVisitor(deps.SessionManager)

	// Use fs.Sub so the file server sees css/app.css directly.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	gallery := NewGalleryHandler(deps.RecordStore, deps.LikeStore)
	r.With(visitor.Identify).Get("/", gallery.Index)

	admin := NewAdminHandler(deps.StatsStore, deps.RecordStore, deps.AdminPollInterval)
	r.Get("/admin", admin.Dashboard)

	// Swagger UI must be registered before the /api mount.
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	r.Mount("/api", api.NewAPIRouter(api.Deps{
		Visitor:     visitor,
		RecordStore: deps.RecordStore,
		LikeStore:   deps.LikeStore,
		ClickStore:  deps.ClickStore,
		StatsStore:  deps.StatsStore,
		Refresher:   deps.Refresher,
	}))

	media := NewMediaHandler(deps.Roots)
	for _, prefix := range media.Prefixes() {
		r.Get("/"+prefix+"/{name}", media.Serve(prefix))
	}

	return r
}
