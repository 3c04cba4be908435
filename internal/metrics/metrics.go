// Package metrics provides the central Prometheus registry for the engine.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine-level metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scoreline",
		Name:      "predictions_total",
		Help:      "Total number of predictions recorded by kind",
	}, []string{"kind"})

	ExtractionFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scoreline",
		Name:      "extraction_failures_total",
		Help:      "Total number of model responses with no recoverable payload",
	})

	ResultsAttachedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scoreline",
		Name:      "results_attached_total",
		Help:      "Total number of final results attached to ledger entries",
	})
)

// NewRegistry creates a registry with the engine metrics and the standard
// process collectors registered.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		PredictionsTotal,
		ExtractionFailuresTotal,
		ResultsAttachedTotal,
	)
	return registry
}

// Serve exposes the registry on the given port and path, plus a /healthz
// endpoint. Blocks until the server exits.
func Serve(registry *prometheus.Registry, port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
