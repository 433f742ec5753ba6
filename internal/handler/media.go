package handler

import (
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/joestump/vidshare/internal/config"
)

// MediaHandler serves files from catalog roots. Roots sharing a prefix are
// tried in configured order, matching the scanner's first-discovery rule.
type MediaHandler struct {
	order []string
	dirs  map[string][]fs.FS
}

// NewMediaHandler groups roots by URL prefix.
func NewMediaHandler(roots []config.Root) *MediaHandler {
	h := &MediaHandler{dirs: make(map[string][]fs.FS)}
	for _, root := range roots {
		if _, ok := h.dirs[root.Prefix]; !ok {
			h.order = append(h.order, root.Prefix)
		}
		h.dirs[root.Prefix] = append(h.dirs[root.Prefix], os.DirFS(root.Dir))
	}
	return h
}

// Prefixes returns the distinct URL prefixes in configured order.
func (h *MediaHandler) Prefixes() []string { return h.order }

// Serve returns the handler for GET /{prefix}/{name}. Range requests and
// conditional headers are handled by http.ServeFileFS.
func (h *MediaHandler) Serve(prefix string) http.HandlerFunc {
	dirs := h.dirs[prefix]
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if r.URL.RawPath != "" {
			unescaped, err := url.PathUnescape(name)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			name = unescaped
		}
		if !safeName(name) {
			http.NotFound(w, r)
			return
		}

		for _, fsys := range dirs {
			info, err := fs.Stat(fsys, name)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			http.ServeFileFS(w, r, fsys, name)
			return
		}
		http.NotFound(w, r)
	}
}

// safeName accepts a single, visible path element.
func safeName(name string) bool {
	return fs.ValidPath(name) &&
		name != "." &&
		!strings.ContainsAny(name, `/\`) &&
		!strings.HasPrefix(name, ".")
}
