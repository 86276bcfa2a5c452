package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// data-quality pipeline and the HTTP API.
type Metrics struct {
	// Quality fetcher metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={fresh,degraded,cache,fallback,failure,short_circuit}
	FetchRetries  prometheus.Counter
	FetchDuration prometheus.Histogram

	// Circuit breaker metrics.
	BreakerTransitions *prometheus.CounterVec // labels: state={closed,open,half-open}

	// Cache metrics.
	CacheLookups *prometheus.CounterVec // labels: layer={fetch,response}, result={hit,miss}

	// Aggregation metrics.
	ConsensusConfidence prometheus.Histogram

	// HTTP API metrics.
	RequestDuration *prometheus.HistogramVec // labels: route

	// Report sink metrics.
	ReportsPublished    prometheus.Counter
	ReportPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchRetries,
		m.FetchDuration,
		m.BreakerTransitions,
		m.CacheLookups,
		m.ConsensusConfidence,
		m.RequestDuration,
		m.ReportsPublished,
		m.ReportPublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics with no registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spacewx",
			Name:      "fetch_requests_total",
			Help:      "Upstream fetches by outcome quality tier.",
		}, []string{"outcome"}),
		FetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spacewx",
			Name:      "fetch_retries_total",
			Help:      "Retry attempts across all upstream fetches.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spacewx",
			Name:      "fetch_duration_seconds",
			Help:      "End-to-end duration of one fetch including retries and fallback.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BreakerTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spacewx",
			Name:      "breaker_transitions_total",
			Help:      "Circuit breaker state transitions by destination state.",
		}, []string{"state"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spacewx",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by layer and result.",
		}, []string{"layer", "result"}),
		ConsensusConfidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spacewx",
			Name:      "consensus_confidence",
			Help:      "Confidence score of cross-source consensus results.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spacewx",
			Name:      "http_request_duration_seconds",
			Help:      "Dashboard API request duration by route.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spacewx",
			Name:      "reports_published_total",
			Help:      "Normalized reports handed to the persistence sink.",
		}),
		ReportPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spacewx",
			Name:      "report_publish_errors_total",
			Help:      "Failed report sink publishes.",
		}),
	}
}
