package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the lifecycle engine. The
// registry is owned by the instance, not the package, so tests can build
// as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	StatusChanges   *prometheus.CounterVec
	Rotations       *prometheus.CounterVec
	QuoteRejections *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_status_changes_total",
			Help:      "Status events recorded, by resulting status.",
		}, []string{"status"}),
		Rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "key_rotations_total",
			Help:      "Key rotation attempts, by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		QuoteRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_rejections_total",
			Help:      "Amount validations that failed, by reason.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.StatusChanges,
		m.Rotations,
		m.QuoteRejections,
	)

	return m
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
