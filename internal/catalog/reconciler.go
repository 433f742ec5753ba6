package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/joestump/vidshare/internal/logger"
	"github.com/joestump/vidshare/internal/metrics"
	"github.com/joestump/vidshare/internal/store"
)

// Result summarizes one refresh.
type Result struct {
	Discovered int // unique files found on disk
	Added      int // records inserted by this refresh
	Skipped    int // duplicate keys ignored in favor of an earlier root
	Failed     int // files whose insert failed
	Missing    int // records whose file is no longer on disk (kept)
	Total      int // records in the catalog afterwards
}

// Reconciler syncs the records table with the files on disk.
//
// Policy: insert-if-absent and keep orphans. A record is never deleted or
// reclassified by a refresh, so its id and like history survive files going
// missing and coming back.
type Reconciler struct {
	mu      sync.Mutex
	scanner *Scanner
	records store.CatalogStore
}

// NewReconciler creates a Reconciler.
func NewReconciler(scanner *Scanner, records store.CatalogStore) *Reconciler {
	return &Reconciler{scanner: scanner, records: records}
}

// Refresh scans every root and inserts newly discovered files. Calls are
// serialized. Running it twice over unchanged files leaves the catalog as is.
func (r *Reconciler) Refresh(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() { metrics.CatalogRefreshDuration.Observe(time.Since(start).Seconds()) }()

	scan := r.scanner.Scan()
	for _, d := range scan.Duplicates {
		logger.Warn("duplicate catalog key, keeping first discovery", "key", d.Key, "path", d.Path)
	}

	ins, err := r.records.InsertMissing(ctx, scan.Entries())
	if err != nil {
		return nil, err
	}
	for _, f := range ins.Failed {
		logger.Error("catalog insert failed", "key", f.Entry.Filename, "err", f.Err)
	}

	all, err := r.records.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	onDisk := make(map[string]bool, len(scan.Files))
	for _, f := range scan.Files {
		onDisk[f.Key] = true
	}
	missing := 0
	for _, rec := range all {
		if !onDisk[rec.Filename] {
			missing++
			logger.Debug("cataloged file missing on disk", "id", rec.ID, "key", rec.Filename)
		}
	}

	res := &Result{
		Discovered: len(scan.Files),
		Added:      ins.Added,
		Skipped:    len(scan.Duplicates),
		Failed:     len(ins.Failed),
		Missing:    missing,
		Total:      len(all),
	}
	metrics.CatalogAddedTotal.Add(float64(res.Added))
	metrics.CatalogRecords.Set(float64(res.Total))

	logger.Info("catalog refreshed",
		"discovered", res.Discovered, "added", res.Added, "skipped", res.Skipped,
		"failed", res.Failed, "missing", res.Missing, "total", res.Total)
	return res, nil
}
