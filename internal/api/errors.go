package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joestump/vidshare/internal/logger"
	"github.com/joestump/vidshare/internal/metrics"
	"github.com/joestump/vidshare/internal/store"
)

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeStoreError maps ledger and catalog errors onto the API error taxonomy.
// Unexpected errors are logged and reported as a generic 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "video not found", "NOT_FOUND")
	case errors.Is(err, store.ErrNotAnAd):
		writeError(w, http.StatusBadRequest, "not an advertisement", "INVALID_ARGUMENT")
	case errors.Is(err, store.ErrMissingUser):
		writeError(w, http.StatusBadRequest, "user_id is required", "BAD_REQUEST")
	default:
		metrics.LedgerErrorsTotal.WithLabelValues(op).Inc()
		logger.Error("api store failure", "op", op, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}
