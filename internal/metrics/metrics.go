// Package metrics exposes Prometheus counters for ledger activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the instrument set for one ledger instance. Registering on
// a caller-supplied registry keeps tests isolated from the global default.
type Metrics struct {
	registry *prometheus.Registry

	Mutations        *prometheus.CounterVec
	TuitionGenerated prometheus.Counter
	ReportRequests   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	return &Metrics{
		registry: reg,
		Mutations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "escolar",
			Name:      "ledger_mutations_total",
			Help:      "Ledger and registry mutations by entity and action.",
		}, []string{"entity", "action"}),
		TuitionGenerated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "escolar",
			Name:      "tuition_generated_total",
			Help:      "Tuition transactions created by batch generation.",
		}),
		ReportRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "escolar",
			Name:      "report_requests_total",
			Help:      "Report collaborator calls by outcome.",
		}, []string{"outcome"}),
	}
}

// Handler serves the /metrics endpoint for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
