package light

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	latestFinalizedSlot = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "light_client_latest_finalized_slot",
		Help: "Slot of the latest finalized beacon header accepted by the store",
	})
	latestExecutionBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "light_client_latest_execution_block",
		Help: "Block number of the latest execution header accepted by the store",
	})
	nextCommitteeKnown = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "light_client_next_committee_known",
		Help: "Whether the sync committee for the next period is known (0 or 1)",
	})
	finalityUpdatesImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "light_client_finality_updates_imported_total",
		Help: "Count of finality updates accepted by the store",
	})
	committeeRotations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "light_client_committee_rotations_total",
		Help: "Count of sync committee rotations applied by the store",
	})
	executionHeadersImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "light_client_execution_headers_imported_total",
		Help: "Count of execution headers accepted by the store",
	})
	committeeCacheHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "light_client_committee_cache_hit",
		Help: "Count of prepared sync committee cache hits",
	})
	committeeCacheMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "light_client_committee_cache_miss",
		Help: "Count of prepared sync committee cache misses",
	})
)
