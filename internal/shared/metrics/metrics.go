package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DocumentsUploadedTotal counts documents persisted, by outcome.
	DocumentsUploadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_uploaded_total",
		Help: "Total document upload attempts.",
	}, []string{"status"})

	// SummarizeTotal counts summarization pipeline runs, by outcome.
	SummarizeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "summarize_total",
		Help: "Total summarization pipeline runs.",
	}, []string{"status"})

	// SummarizeDurationSeconds tracks end-to-end summarization latency.
	SummarizeDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "summarize_duration_seconds",
		Help:    "Duration of single-document summarization.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	// CompareTotal counts similarity comparisons, by outcome.
	CompareTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "compare_total",
		Help: "Total similarity comparison requests.",
	}, []string{"status"})

	// EmbeddingRequestsTotal counts upstream embedding calls, by outcome.
	EmbeddingRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "embedding_requests_total",
		Help: "Total embedding provider requests.",
	}, []string{"model", "status"})

	// EmbeddingCacheTotal counts embedding cache lookups with result hit/miss.
	EmbeddingCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "embedding_cache_total",
		Help: "Embedding cache lookups.",
	}, []string{"result"})
)

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
