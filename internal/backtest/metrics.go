package backtest

import "github.com/prometheus/client_golang/prometheus"

// CandidatesTotal counts backtest candidates by terminal status.
var CandidatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "scoreline",
	Name:      "backtest_candidates_total",
	Help:      "Total number of backtest candidates by status",
}, []string{"status"})

// RegisterMetrics registers the package metrics on the given registry.
func RegisterMetrics(registry *prometheus.Registry) {
	registry.MustRegister(CandidatesTotal)
}
