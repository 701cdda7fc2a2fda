// Package metric provides platform-level Prometheus metrics for the query
// gateway and analytics orchestration. Collectors are created once and
// registered explicitly by the caller; nothing here touches the default
// registry implicitly.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics (not domain-specific).
type Metrics struct {
	// Gateway metrics
	QueriesPrepared prometheus.Counter
	QueriesRejected *prometheus.CounterVec

	// Analytics metrics
	AnalysisRuns     *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	ProjectionOps    *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all platform metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		QueriesPrepared: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "lattice",
				Subsystem: "gateway",
				Name:      "queries_prepared_total",
				Help:      "Total number of candidate queries that passed validation",
			},
		),

		QueriesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lattice",
				Subsystem: "gateway",
				Name:      "queries_rejected_total",
				Help:      "Total number of candidate queries rejected, by rejection kind",
			},
			[]string{"kind"},
		),

		AnalysisRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lattice",
				Subsystem: "analytics",
				Name:      "runs_total",
				Help:      "Total number of per-kind analysis runs, by kind and status",
			},
			[]string{"kind", "status"},
		),

		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lattice",
				Subsystem: "analytics",
				Name:      "duration_seconds",
				Help:      "Per-kind analysis query duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		ProjectionOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lattice",
				Subsystem: "projection",
				Name:      "operations_total",
				Help:      "Total number of projection operations, by operation and status",
			},
			[]string{"operation", "status"},
		),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.QueriesPrepared,
		m.QueriesRejected,
		m.AnalysisRuns,
		m.AnalysisDuration,
		m.ProjectionOps,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
