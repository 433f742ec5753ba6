package handler

import (
	"net/http"
	"time"

	"github.com/joestump/vidshare/internal/logger"
	"github.com/joestump/vidshare/internal/store"
)

// AdminHandler serves the engagement dashboard.
type AdminHandler struct {
	stats        *store.StatsStore
	records      *store.RecordStore
	pollInterval time.Duration
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ss *store.StatsStore, rs *store.RecordStore, poll time.Duration) *AdminHandler {
	return &AdminHandler{stats: ss, records: rs, pollInterval: poll}
}

// AdminDashboardPage is the template data for the admin dashboard. Stats is
// the server-side first paint; the page script refreshes it by polling.
type AdminDashboardPage struct {
	BasePage
	Stats          *store.Stats
	CatalogSize    int64
	PollIntervalMS int64
	Alert          *Alert
}

// Dashboard renders GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := AdminDashboardPage{
		BasePage:       newBasePage("Admin"),
		Stats:          &store.Stats{Ads: []store.AdStat{}},
		PollIntervalMS: h.pollInterval.Milliseconds(),
	}

	st, err := h.stats.Stats(r.Context())
	if err != nil {
		logger.Error("admin stats", "err", err)
		data.Alert = &Alert{Type: "error", Message: "Could not load statistics."}
	} else {
		data.Stats = st
	}
	if n, err := h.records.Count(r.Context()); err == nil {
		data.CatalogSize = n
	}

	render(w, "admin/dashboard.html", data)
}
