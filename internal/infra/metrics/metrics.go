// Package metrics provides Prometheus metrics for news-retriever.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchTotal counts retrieval pipeline runs by outcome.
	SearchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsretriever",
			Name:      "search_total",
			Help:      "Total number of retrieval pipeline runs",
		},
		[]string{"status"},
	)

	// SearchDuration measures end-to-end pipeline latency.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newsretriever",
			Name:      "search_duration_seconds",
			Help:      "Duration of retrieval pipeline runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// MethodCandidates observes how many candidates each retrieval method returned.
	MethodCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsretriever",
			Name:      "method_candidates",
			Help:      "Distribution of candidate counts per retrieval method",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"method"},
	)

	// MethodErrors counts degraded retrieval methods (one signal lost).
	MethodErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsretriever",
			Name:      "method_errors_total",
			Help:      "Total number of retrieval method failures absorbed by the pipeline",
		},
		[]string{"method"},
	)

	// RerankCacheHits counts rerank score cache hits.
	RerankCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "newsretriever",
			Name:      "rerank_cache_hits_total",
			Help:      "Total number of rerank score cache hits",
		},
	)

	// RerankCacheMisses counts rerank score cache misses.
	RerankCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "newsretriever",
			Name:      "rerank_cache_misses_total",
			Help:      "Total number of rerank score cache misses",
		},
	)

	// RerankFallbacks counts batches scored with incoming scores because the
	// model call failed.
	RerankFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "newsretriever",
			Name:      "rerank_fallbacks_total",
			Help:      "Total number of rerank batches that fell back to retrieval scores",
		},
	)
)

// RecordSearch records one pipeline run.
func RecordSearch(status string, seconds float64) {
	SearchTotal.WithLabelValues(status).Inc()
	SearchDuration.Observe(seconds)
}

// RecordMethod records a retrieval method's candidate count.
func RecordMethod(method string, candidates int) {
	MethodCandidates.WithLabelValues(method).Observe(float64(candidates))
}
