package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LikeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshare_like_toggles_total",
		Help: "Successful like toggles, by resulting state.",
	}, []string{"action"})

	AdClicksRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidshare_ad_clicks_recorded_total",
		Help: "Ad click rows successfully written to the database.",
	})

	LedgerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidshare_ledger_errors_total",
		Help: "Ledger operations that failed with an internal error.",
	}, []string{"op"})

	CatalogRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vidshare_catalog_records",
		Help: "Records in the catalog after the last refresh.",
	})

	CatalogAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidshare_catalog_added_total",
		Help: "Records added by catalog refreshes.",
	})

	CatalogRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vidshare_catalog_refresh_duration_seconds",
		Help:    "Time to scan roots and reconcile the catalog.",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})
)

// ObserveToggle counts a toggle under "like" or "unlike".
func ObserveToggle(liked bool) {
	action := "unlike"
	if liked {
		action = "like"
	}
	LikeTogglesTotal.WithLabelValues(action).Inc()
}
