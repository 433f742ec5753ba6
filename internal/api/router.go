package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joestump/vidshare/internal/auth"
	"github.com/joestump/vidshare/internal/catalog"
	"github.com/joestump/vidshare/internal/store"
)

// Refresher re-scans the catalog roots. *catalog.Reconciler implements it.
type Refresher interface {
	Refresh(ctx context.Context) (*catalog.Result, error)
}

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Visitor     *auth.Visitor
	RecordStore *store.RecordStore
	LikeStore   *store.LikeStore
	ClickStore  *store.ClickStore
	StatsStore  *store.StatsStore
	Refresher   Refresher
}

// NewAPIRouter creates a chi sub-router for /api. The session manager's
// LoadAndSave must wrap it so Visitor can read and issue identifiers.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(jsonContentType)
	r.Use(deps.Visitor.Identify)

	registerVideoRoutes(r, deps.RecordStore, deps.LikeStore)
	registerEngagementRoutes(r, deps.LikeStore, deps.ClickStore)
	registerAdminRoutes(r, deps.StatsStore, deps.Refresher)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such endpoint", "NOT_FOUND")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "METHOD_NOT_ALLOWED")
	})

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
