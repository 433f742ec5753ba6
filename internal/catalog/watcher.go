package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joestump/vidshare/internal/logger"
)

// Watcher triggers a debounced refresh whenever a root directory changes.
type Watcher struct {
	rec      *Reconciler
	debounce time.Duration

	// refreshed, if set, receives each refresh outcome. Used by tests.
	refreshed func(*Result, error)
}

// NewWatcher creates a Watcher for the reconciler's roots.
func NewWatcher(rec *Reconciler, debounce time.Duration) *Watcher {
	return &Watcher{rec: rec, debounce: debounce}
}

// Run watches until ctx is cancelled. Roots that do not exist when Run starts
// are not watched.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	watched := 0
	for _, root := range w.rec.scanner.Roots() {
		if err := fw.Add(root.Dir); err != nil {
			logger.Warn("cannot watch catalog root", "dir", root.Dir, "err", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no catalog roots could be watched")
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !w.rec.scanner.IsVideo(ev.Name) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error("catalog watcher", "err", err)

		case <-fire:
			fire = nil
			res, err := w.rec.Refresh(ctx)
			if err != nil {
				logger.Error("catalog refresh after change", "err", err)
			}
			if w.refreshed != nil {
				w.refreshed(res, err)
			}
		}
	}
}
