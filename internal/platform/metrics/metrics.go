package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Registration uses
// promauto against a private registry so tests can construct Metrics without
// colliding on the default registerer.
type Metrics struct {
	registry *prometheus.Registry

	Lookups     *prometheus.CounterVec
	Mutations   *prometheus.CounterVec
	Resolutions *prometheus.CounterVec

	ResolveDuration prometheus.Histogram
}

// New creates and registers all Prometheus metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dialbook_lookups_total",
			Help: "Directory lookups by outcome",
		}, []string{"outcome"}),
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dialbook_mutations_total",
			Help: "Directory mutations by operation and outcome",
		}, []string{"operation", "outcome"}),
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dialbook_external_resolutions_total",
			Help: "External validation lookups by result",
		}, []string{"result"}),
		ResolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dialbook_external_resolve_duration_seconds",
			Help:    "Latency of external validation lookups",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// Registry exposes the backing registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveLookup(outcome string) {
	m.Lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveMutation(operation, outcome string) {
	m.Mutations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveResolution(result string, elapsed time.Duration) {
	m.Resolutions.WithLabelValues(result).Inc()
	m.ResolveDuration.Observe(elapsed.Seconds())
}
