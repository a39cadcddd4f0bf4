package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesFound = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kayipbul",
		Name:      "matches_found_total",
		Help:      "Total number of match candidates surfaced above threshold",
	})

	MatchesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kayipbul",
		Name:      "matches_saved_total",
		Help:      "Total number of match rows created or refreshed",
	})

	EmbeddingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kayipbul",
		Name:      "embeddings_created_total",
		Help:      "Total number of image embeddings inserted into the index",
	})

	EmbeddingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kayipbul",
		Name:      "embedding_failures_total",
		Help:      "Total number of failed embedding provider calls",
	})

	IndexUnreachable = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kayipbul",
		Name:      "vector_index_unreachable_total",
		Help:      "Total number of failed vector index queries",
	})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kayipbul",
		Name:      "vector_search_duration_seconds",
		Help:      "Duration of nearest-neighbor searches",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	})
)
