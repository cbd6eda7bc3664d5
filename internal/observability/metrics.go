package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// NEO ingestion pipeline.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec // labels: outcome={success,empty,error}
	RunDuration    prometheus.Histogram
	NeosStored     prometheus.Counter
	RecordsSkipped prometheus.Counter

	// Provider feed metrics.
	ProviderRequests        *prometheus.CounterVec // labels: outcome={success,http_error,transport_error}
	ProviderRequestDuration prometheus.Histogram

	AnalysesUpserted prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-store-analyse run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		NeosStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "neos_stored_total",
			Help:      "Total NEO rows upserted across all runs.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "records_skipped_total",
			Help:      "Raw records skipped for lack of a matching close-approach date.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "provider_requests_total",
			Help:      "Provider feed requests by outcome, counting each attempt.",
		}, []string{"outcome"}),
		ProviderRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_etl",
			Name:      "provider_request_duration_seconds",
			Help:      "Provider feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AnalysesUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_etl",
			Name:      "analyses_upserted_total",
			Help:      "Total daily analysis rows created or updated.",
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.NeosStored,
		m.RecordsSkipped,
		m.ProviderRequests,
		m.ProviderRequestDuration,
		m.AnalysesUpserted,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:               prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "neo_etl", Name: "runs_total"}, []string{"outcome"}),
		RunDuration:             prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "neo_etl", Name: "run_duration_seconds"}),
		NeosStored:              prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "neos_stored_total"}),
		RecordsSkipped:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "records_skipped_total"}),
		ProviderRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "neo_etl", Name: "provider_requests_total"}, []string{"outcome"}),
		ProviderRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "neo_etl", Name: "provider_request_duration_seconds"}),
		AnalysesUpserted:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "neo_etl", Name: "analyses_upserted_total"}),
	}
}
