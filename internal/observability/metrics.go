package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the risk
// service.
type Metrics struct {
	AssessmentsTotal    *prometheus.CounterVec // labels: outcome={computed,insufficient_coverage}
	AssessmentDuration  prometheus.Histogram
	AssessmentsInFlight prometheus.Gauge
	SampleSetSize       prometheus.Histogram

	// Upstream archive metrics.
	PowerRequests    *prometheus.CounterVec // labels: outcome={success,error,breaker_open}
	PowerAPIDuration prometheus.Histogram
	PowerCache       *prometheus.CounterVec // labels: result={hit,miss}

	// Sink metrics.
	AssessmentsPublished prometheus.Counter
	PublishErrors        prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.AssessmentsTotal,
		m.AssessmentDuration,
		m.AssessmentsInFlight,
		m.SampleSetSize,
		m.PowerRequests,
		m.PowerAPIDuration,
		m.PowerCache,
		m.AssessmentsPublished,
		m.PublishErrors,
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
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "assessments_total",
			Help:      "Completed assessments by outcome.",
		}, []string{"outcome"}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_risk",
			Name:      "assessment_duration_seconds",
			Help:      "Duration of a complete collect-classify-estimate cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AssessmentsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_risk",
			Name:      "assessments_in_flight",
			Help:      "Number of assessment requests currently being served.",
		}),
		SampleSetSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_risk",
			Name:      "sample_set_size",
			Help:      "Number of hourly samples assembled per assessment.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		PowerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "power_requests_total",
			Help:      "NASA POWER API requests by outcome.",
		}, []string{"outcome"}),
		PowerAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_risk",
			Name:      "power_api_duration_seconds",
			Help:      "NASA POWER API request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PowerCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "power_cache_total",
			Help:      "NASA POWER response cache lookups by result.",
		}, []string{"result"}),
		AssessmentsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "assessments_published_total",
			Help:      "Assessments written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "publish_errors_total",
			Help:      "Failed sink topic writes.",
		}),
	}
}
