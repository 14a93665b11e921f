package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// namespace prefixes every metric this service exports.
const namespace = "coursedex"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"status"},
	)

	MultiSearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "msearch_duration_seconds",
			Help:      "Batched index request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"status"},
	)

	MultiSearchQueries = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "msearch_queries",
			Help:      "Number of queries per batched index request",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_total",
			Help:      "Search response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SubjectWarmupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subject_cache_warmups_total",
			Help:      "Subject cache warm-up attempts against the catalog store",
		},
		[]string{"status"},
	)

	FilterRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_rejections_total",
			Help:      "Filter selection entries dropped during validation",
		},
		[]string{"reason"},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers Prometheus search metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			MultiSearchDuration,
			MultiSearchQueries,
			SearchCacheTotal,
			SubjectWarmupsTotal,
			FilterRejectionsTotal,
		)
	})
}
