package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeEmpty      = "empty"
	OutcomeValidation = "validation_error"
	OutcomeUpstream   = "upstream_error"
	OutcomeCanceled   = "canceled"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Semantic search requests by outcome",
		},
		[]string{"source", "outcome"},
	)

	SearchEncodingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_query_encodings_total",
			Help:      "Searches whose query text went through the encoder, by source",
		},
		[]string{"source"},
	)

	SearchQueryTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_query_tokens_total",
			Help:      "Embedding tokens spent encoding search queries, by source",
		},
		[]string{"source"},
	)

	SearchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_candidates",
			Help:      "Candidate documents fetched from the store per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	SearchExcludedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_excluded_documents_total",
			Help:      "Candidates dropped by the ranker",
		},
		[]string{"reason"}, // "invalid_date" / "out_of_window" / "below_threshold"
	)

	SearchRankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_rank_duration_seconds",
			Help:      "Time spent scoring and ordering candidates",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	StoreQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Document store query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"op", "status"},
	)
)

var searchOnce sync.Once

// RegisterSearchMetrics registers search and store metrics with the default registry.
// Safe to call more than once.
func RegisterSearchMetrics() {
	searchOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchEncodingsTotal,
			SearchQueryTokensTotal,
			SearchCandidates,
			SearchResults,
			SearchExcludedTotal,
			SearchRankDuration,
			StoreQueryDuration,
		)
	})
}
