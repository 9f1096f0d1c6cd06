package observability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics definitions
var (
	FilesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reqscan_files_discovered_total",
		Help: "Total number of candidate files discovered.",
	})

	ParseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reqscan_parse_failures_total",
		Help: "Total number of per-file extraction failures, by failure code.",
	}, []string{"code"})

	ImportsAggregated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reqscan_imports_aggregated",
		Help: "Distinct external import names after the last aggregation.",
	})

	ResolveHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reqscan_resolve_hits_total",
		Help: "Import names matched to an installed distribution.",
	})

	ResolveMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reqscan_resolve_misses_total",
		Help: "Import names with no matching installed distribution.",
	})

	ManifestEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reqscan_manifest_entries",
		Help: "Entries written by the last manifest write.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reqscan_run_seconds",
		Help:    "Wall time of a full scan-to-manifest run.",
		Buckets: prometheus.DefBuckets,
	})
)

// ServeMetrics exposes the prometheus endpoint for watch mode. The server
// lives for the life of the process; errors only get logged since metrics
// are never load-bearing.
func ServeMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
}
