package handler

import (
	"net/http"

	"github.com/joestump/vidshare/internal/auth"
	"github.com/joestump/vidshare/internal/logger"
	"github.com/joestump/vidshare/internal/store"
)

// GalleryHandler serves the public catalog page.
type GalleryHandler struct {
	records *store.RecordStore
	likes   *store.LikeStore
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(rs *store.RecordStore, ls *store.LikeStore) *GalleryHandler {
	return &GalleryHandler{records: rs, likes: ls}
}

// GalleryItem is one tile on the gallery page.
type GalleryItem struct {
	*store.Record
	Liked bool
}

// GalleryPage is the template data for GET /.
type GalleryPage struct {
	BasePage
	Items []GalleryItem
	Alert *Alert
}

// Index renders GET /. It must run behind auth.Visitor so the caller's likes
// can be marked.
func (h *GalleryHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := GalleryPage{BasePage: newBasePage("Videos")}

	records, err := h.records.ListAll(r.Context())
	if err != nil {
		logger.Error("gallery list", "err", err)
		data.Alert = &Alert{Type: "error", Message: "Could not load videos."}
		render(w, "index.html", data)
		return
	}
	liked, err := h.likes.LikedRecordIDs(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		logger.Warn("gallery liked ids", "err", err)
	}

	data.Items = make([]GalleryItem, 0, len(records))
	for _, rec := range records {
		data.Items = append(data.Items, GalleryItem{Record: rec, Liked: liked[rec.ID]})
	}
	render(w, "index.html", data)
}
