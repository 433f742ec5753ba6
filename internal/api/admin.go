package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joestump/vidshare/internal/store"
)

type adminAPIHandler struct {
	stats     *store.StatsStore
	refresher Refresher
}

func registerAdminRoutes(r chi.Router, stats *store.StatsStore, refresher Refresher) {
	h := &adminAPIHandler{stats: stats, refresher: refresher}
	r.Get("/stats", h.Stats)
	r.Post("/reset", h.Reset)
	r.Post("/refresh_videos", h.RefreshVideos)
}

// Stats returns the advertisement engagement summary.
// GET /api/stats
//
// @Summary      Ad engagement stats
// @Description  Likes and clicks over advertisement records, with a per-ad breakdown ordered by likes.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /stats [get]
func (h *adminAPIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Stats(r.Context())
	if err != nil {
		writeStoreError(w, r, "stats", err)
		return
	}

	resp := StatsResponse{
		TotalAdLikes:          st.TotalAdLikes,
		UniqueUsersLikedAds:   st.UniqueUsersLikedAds,
		TotalAdClicks:         st.TotalAdClicks,
		UniqueUsersClickedAds: st.UniqueUsersClickedAds,
		Ads:                   make([]AdStatResponse, 0, len(st.Ads)),
	}
	for _, a := range st.Ads {
		resp.Ads = append(resp.Ads, AdStatResponse{ID: a.ID, Filename: a.Filename, Likes: a.Likes, Clicks: a.Clicks})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reset clears every like and ad click.
// POST /api/reset
//
// @Summary      Reset engagement
// @Description  Deletes all likes and ad clicks and zeroes like counters. The catalog is kept.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /reset [post]
func (h *adminAPIHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.stats.ResetAll(r.Context()); err != nil {
		writeStoreError(w, r, "reset", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "all likes and ad clicks have been reset"})
}

// RefreshVideos re-scans the catalog roots.
// POST /api/refresh_videos
//
// @Summary      Refresh catalog
// @Description  Scans the video roots and adds files not yet cataloged. Existing records and like counts are untouched.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  RefreshResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /refresh_videos [post]
func (h *adminAPIHandler) RefreshVideos(w http.ResponseWriter, r *http.Request) {
	res, err := h.refresher.Refresh(r.Context())
	if err != nil {
		writeStoreError(w, r, "refresh_videos", err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{
		Message:    fmt.Sprintf("catalog refreshed: %d new videos added", res.Added),
		Added:      res.Added,
		Discovered: res.Discovered,
		Skipped:    res.Skipped,
		Missing:    res.Missing,
	})
}
