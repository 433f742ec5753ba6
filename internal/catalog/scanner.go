// Package catalog discovers video files under the configured roots and
// reconciles them into the records table.
package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joestump/vidshare/internal/config"
	"github.com/joestump/vidshare/internal/logger"
	"github.com/joestump/vidshare/internal/store"
)

// File is one discovered video.
type File struct {
	Key  string // catalog key: "{prefix}/{name}"
	Path string // on-disk location
	IsAd bool
}

// Scan is the outcome of walking every root once.
type Scan struct {
	Files      []File // unique by Key, in discovery order
	Duplicates []File // later discoveries of an already-seen Key
}

// Entries converts the discovered files to store rows.
func (s *Scan) Entries() []store.CatalogEntry {
	entries := make([]store.CatalogEntry, 0, len(s.Files))
	for _, f := range s.Files {
		entries = append(entries, store.CatalogEntry{Filename: f.Key, IsAd: f.IsAd})
	}
	return entries
}

// Scanner lists video files in an ordered set of roots. Roots are not walked
// recursively.
type Scanner struct {
	roots      []config.Root
	extensions map[string]bool
	adPrefix   string
}

// NewScanner creates a Scanner. Extensions are matched case-insensitively and
// include the leading dot.
func NewScanner(roots []config.Root, extensions []string, adPrefix string) *Scanner {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Scanner{roots: roots, extensions: exts, adPrefix: adPrefix}
}

// Roots returns the configured roots in scan order.
func (s *Scanner) Roots() []config.Root { return s.roots }

// IsVideo reports whether name has a recognized video extension.
func (s *Scanner) IsVideo(name string) bool {
	return s.extensions[strings.ToLower(filepath.Ext(name))]
}

// Scan enumerates all roots. The first root to yield a key owns it, including
// its ad classification. A missing or unreadable root is logged and skipped.
func (s *Scanner) Scan() *Scan {
	out := &Scan{}
	seen := make(map[string]bool)

	for _, root := range s.roots {
		entries, err := os.ReadDir(root.Dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("catalog root does not exist", "dir", root.Dir)
			} else {
				logger.Error("read catalog root", "dir", root.Dir, "err", err)
			}
			continue
		}

		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") || !s.IsVideo(name) {
				continue
			}
			if !utf8.ValidString(name) {
				logger.Warn("skipping file with non-UTF-8 name", "dir", root.Dir, "name", strings.ToValidUTF8(name, "?"))
				continue
			}
			f := File{
				Key:  path.Join(root.Prefix, name),
				Path: filepath.Join(root.Dir, name),
				IsAd: s.classify(root, name),
			}
			if seen[f.Key] {
				out.Duplicates = append(out.Duplicates, f)
				continue
			}
			seen[f.Key] = true
			out.Files = append(out.Files, f)
		}
	}
	return out
}

func (s *Scanner) classify(root config.Root, name string) bool {
	switch root.Kind {
	case config.KindAd:
		return true
	case config.KindPrefix:
		return s.adPrefix != "" && strings.HasPrefix(strings.ToLower(name), strings.ToLower(s.adPrefix))
	default:
		return false
	}
}
