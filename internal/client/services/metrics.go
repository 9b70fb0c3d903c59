package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "staffdir",
		Name:      "search_duration_seconds",
		Help:      "Search latency by result source.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 9),
	}, []string{"source"})

	resultCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staffdir",
		Name:      "result_cache_lookups_total",
		Help:      "Memoized search lookups by layer and outcome.",
	}, []string{"layer", "outcome"})

	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "staffdir",
		Name:      "sync_runs_total",
		Help:      "Sync runs by outcome.",
	}, []string{"outcome"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "staffdir",
		Name:      "sync_duration_seconds",
		Help:      "Duration of sync runs.",
		Buckets:   prometheus.DefBuckets,
	})

	localRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "staffdir",
		Name:      "local_records",
		Help:      "Employees held in the local cache after the last sync.",
	})

	updatesAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "staffdir",
		Name:      "updates_available",
		Help:      "1 when the last staleness probe saw a remote count mismatch.",
	})
)

const (
	layerMemory  = "memory"
	layerDurable = "durable"

	outcomeHit     = "hit"
	outcomeMiss    = "miss"
	outcomeExpired = "expired"
)
