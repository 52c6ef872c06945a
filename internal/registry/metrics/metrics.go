package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for registry lookups.
type Metrics struct {
	// Lookup outcomes by identifier kind and outcome kind
	Lookups *prometheus.CounterVec

	// Advisory codes attached to successful lookups
	Advisories *prometheus.CounterVec

	// Transport failures by category
	TransportFailures *prometheus.CounterVec

	// Round-trip latency of the registry exchange
	TransportLatency prometheus.Histogram
}

// New creates a new Metrics instance registered on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "demographics_registry_lookups_total",
			Help: "Total registry lookups by identifier kind and outcome",
		}, []string{"kind", "outcome"}), // kind: "HDID", "PHN"

		Advisories: f.NewCounterVec(prometheus.CounterOpts{
			Name: "demographics_registry_advisories_total",
			Help: "Successful lookups that carried an advisory response code",
		}, []string{"kind"}),

		TransportFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "demographics_registry_transport_failures_total",
			Help: "Registry exchanges that failed by failure category",
		}, []string{"category"}),

		TransportLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "demographics_registry_transport_duration_seconds",
			Help:    "Duration of the registry exchange",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementLookup records a lookup outcome.
func (m *Metrics) IncrementLookup(kind, outcome string) {
	if m != nil {
		m.Lookups.WithLabelValues(kind, outcome).Inc()
	}
}

// IncrementAdvisory records a success that carried an advisory.
func (m *Metrics) IncrementAdvisory(kind string) {
	if m != nil {
		m.Advisories.WithLabelValues(kind).Inc()
	}
}

// IncrementTransportFailure records a failed exchange.
func (m *Metrics) IncrementTransportFailure(category string) {
	if m != nil {
		m.TransportFailures.WithLabelValues(category).Inc()
	}
}

// ObserveTransportLatency records the duration of an exchange.
func (m *Metrics) ObserveTransportLatency(d time.Duration) {
	if m != nil {
		m.TransportLatency.Observe(d.Seconds())
	}
}
