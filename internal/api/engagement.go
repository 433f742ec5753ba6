package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joestump/vidshare/internal/auth"
	"github.com/joestump/vidshare/internal/metrics"
	"github.com/joestump/vidshare/internal/store"
)

type engagementAPIHandler struct {
	likes  *store.LikeStore
	clicks *store.ClickStore
}

func registerEngagementRoutes(r chi.Router, likes *store.LikeStore, clicks *store.ClickStore) {
	h := &engagementAPIHandler{likes: likes, clicks: clicks}
	r.Post("/like", h.ToggleLike)
	r.Post("/ad_click", h.AdClick)
}

// decodeEngagement parses the body and resolves the acting user. It writes a
// 400 and returns false when the body is malformed or video_id is missing.
func decodeEngagement(w http.ResponseWriter, r *http.Request) (userID string, videoID int64, ok bool) {
	var req EngagementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return "", 0, false
	}
	if req.VideoID == nil {
		writeError(w, http.StatusBadRequest, "video_id is required", "BAD_REQUEST")
		return "", 0, false
	}
	userID = req.UserID
	if userID == "" {
		userID = auth.UserIDFromContext(r.Context())
	}
	return userID, *req.VideoID, true
}

// ToggleLike likes the video if the user has not, and unlikes it otherwise.
// POST /api/like
//
// @Summary      Toggle like
// @Description  Flips the caller's like on a video and returns the new state with the authoritative like count.
// @Tags         Engagement
// @Accept       json
// @Produce      json
// @Param        body  body      EngagementRequest  true  "Video to toggle"
// @Success      200   {object}  LikeResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /like [post]
func (h *engagementAPIHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, videoID, ok := decodeEngagement(w, r)
	if !ok {
		return
	}

	res, err := h.likes.Toggle(r.Context(), userID, videoID)
	if err != nil {
		writeStoreError(w, r, "toggle_like", err)
		return
	}
	metrics.ObserveToggle(res.Liked)

	writeJSON(w, http.StatusOK, LikeResponse{
		Liked:      res.Liked,
		TotalLikes: res.TotalLikes,
		UserID:     userID,
	})
}

// AdClick records one click on an advertisement.
// POST /api/ad_click
//
// @Summary      Record ad click
// @Description  Appends a click event. Every call is recorded; clicks are not deduplicated.
// @Tags         Engagement
// @Accept       json
// @Produce      json
// @Param        body  body      EngagementRequest  true  "Advertisement clicked"
// @Success      200   {object}  AdClickResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /ad_click [post]
func (h *engagementAPIHandler) AdClick(w http.ResponseWriter, r *http.Request) {
	userID, videoID, ok := decodeEngagement(w, r)
	if !ok {
		return
	}

	if err := h.clicks.RecordAdClick(r.Context(), userID, videoID); err != nil {
		writeStoreError(w, r, "ad_click", err)
		return
	}
	metrics.AdClicksRecordedTotal.Inc()

	writeJSON(w, http.StatusOK, AdClickResponse{Success: true, Message: "ad click recorded"})
}
