package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joestump/vidshare/internal/auth"
	"github.com/joestump/vidshare/internal/store"
)

type videosAPIHandler struct {
	records *store.RecordStore
	likes   *store.LikeStore
}

func registerVideoRoutes(r chi.Router, records *store.RecordStore, likes *store.LikeStore) {
	h := &videosAPIHandler{records: records, likes: likes}
	r.Get("/get_user_id", h.GetUserID)
	r.Get("/videos", h.List)
}

// GetUserID returns the caller's anonymous identifier, issuing one if needed.
// GET /api/get_user_id
//
// @Summary      Get anonymous user id
// @Description  Returns the identifier bound to the caller's session cookie. A new one is issued on first visit.
// @Tags         Identity
// @Produce      json
// @Success      200  {object}  UserIDResponse
// @Router       /get_user_id [get]
func (h *videosAPIHandler) GetUserID(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UserIDResponse{UserID: auth.UserIDFromContext(r.Context())})
}

// List returns the whole catalog in insertion order.
// GET /api/videos
//
// @Summary      List videos
// @Description  Returns every cataloged video and ad. liked reflects the caller's own like state.
// @Tags         Videos
// @Produce      json
// @Success      200  {array}   VideoResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /videos [get]
func (h *videosAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.ListAll(r.Context())
	if err != nil {
		writeStoreError(w, r, "list_videos", err)
		return
	}
	liked, err := h.likes.LikedRecordIDs(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeStoreError(w, r, "list_videos", err)
		return
	}

	resp := make([]VideoResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, VideoResponse{
			ID:         rec.ID,
			Filename:   rec.Filename,
			IsAd:       rec.IsAd,
			TotalLikes: rec.TotalLikes,
			Liked:      liked[rec.ID],
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
