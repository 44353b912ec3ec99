package metrics

import (
	"net/http"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer counts filter dispatch decisions. One Observer is shared by all
// requests; the counters are safe for concurrent use.
type Observer struct {
	applied  *prometheus.CounterVec
	ignored  *prometheus.CounterVec
	requests *prometheus.CounterVec
}

// NewObserver registers the filter counters on reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		applied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queryfilter_filters_applied_total",
				Help: "Total number of filters applied, by handler and operator",
			},
			[]string{"handler", "operator"},
		),
		ignored: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queryfilter_filters_ignored_total",
				Help: "Total number of filters ignored, by reason",
			},
			[]string{"reason"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queryfilter_requests_total",
				Help: "Total number of filtered table requests, by table and status",
			},
			[]string{"table", "status"},
		),
	}
}

func (o *Observer) FilterApplied(_ string, op types.Operator, _ interface{}, handler string) {
	if handler == "" {
		handler = "unknown"
	}
	o.applied.WithLabelValues(handler, op.String()).Inc()
}

func (o *Observer) FilterIgnored(_ string, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	o.ignored.WithLabelValues(reason).Inc()
}

// IncRequests counts a served table request.
func (o *Observer) IncRequests(table, status string) {
	o.requests.WithLabelValues(table, status).Inc()
}

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
