package llm

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for model query traffic.
var (
	ModelQueriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scoreline",
		Name:      "model_queries_total",
		Help:      "Total number of model queries by purpose and cache status",
	}, []string{"purpose", "cached"})

	ModelQueryErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scoreline",
		Name:      "model_query_errors_total",
		Help:      "Total number of failed model queries",
	})

	ModelQueryLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scoreline",
		Name:      "model_query_latency_seconds",
		Help:      "Latency of model queries in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RegisterMetrics registers the package metrics on the given registry.
func RegisterMetrics(registry *prometheus.Registry) {
	registry.MustRegister(ModelQueriesTotal, ModelQueryErrorsTotal, ModelQueryLatency)
}
