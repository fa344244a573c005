package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// archive fetcher.
type Metrics struct {
	EventsProcessed *prometheus.CounterVec // labels: status={completed,no_stations_found,partial_failure,failed}
	EventsSkipped   prometheus.Counter
	RunRunning      prometheus.Gauge

	// Retrieval metrics.
	FetchAttempts *prometheus.CounterVec // labels: source, outcome={success,no_data,error}
	WaveformBytes prometheus.Counter

	// Resolution and timing metrics.
	StationsResolved    prometheus.Histogram
	EventDuration       prometheus.Histogram
	CatalogSourceErrors *prometheus.CounterVec // labels: source
	PersistenceFailures prometheus.Counter
}

// NewMetrics creates and registers all fetcher metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EventsProcessed,
		m.EventsSkipped,
		m.RunRunning,
		m.FetchAttempts,
		m.WaveformBytes,
		m.StationsResolved,
		m.EventDuration,
		m.CatalogSourceErrors,
		m.PersistenceFailures,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		EventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seismic_fetcher",
			Name:      "events_processed_total",
			Help:      "Archived events by terminal status.",
		}, []string{"status"}),
		EventsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seismic_fetcher",
			Name:      "events_skipped_total",
			Help:      "Events skipped because their archive directory already existed.",
		}),
		RunRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seismic_fetcher",
			Name:      "run_running",
			Help:      "1 while a batch run is active, 0 otherwise.",
		}),
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seismic_fetcher",
			Name:      "fetch_attempts_total",
			Help:      "Waveform fetch attempts by data centre and outcome.",
		}, []string{"source", "outcome"}),
		WaveformBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seismic_fetcher",
			Name:      "waveform_bytes_total",
			Help:      "Total bytes of waveform data written to the archive.",
		}),
		StationsResolved: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seismic_fetcher",
			Name:      "stations_resolved",
			Help:      "Stations selected per event after dedupe, ranking, and truncation.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}),
		EventDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seismic_fetcher",
			Name:      "event_duration_seconds",
			Help:      "Wall time spent archiving one event, including pacing delays.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		CatalogSourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seismic_fetcher",
			Name:      "catalog_source_errors_total",
			Help:      "Station directory queries that failed, by data centre.",
		}, []string{"source"}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seismic_fetcher",
			Name:      "persistence_failures_total",
			Help:      "Waveform or metadata writes that failed.",
		}),
	}
}
