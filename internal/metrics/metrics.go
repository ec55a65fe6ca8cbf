package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "neuroshim",
			Subsystem: "runtime",
			Name:      "sessions_active",
			Help:      "Currently live runtime sessions",
		},
	)

	SessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neuroshim",
			Subsystem: "runtime",
			Name:      "sessions_created_total",
			Help:      "Total runtime sessions created",
		},
	)

	InferencesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuroshim",
			Subsystem: "runtime",
			Name:      "inferences_total",
			Help:      "Total inference invocations",
		},
		[]string{"backend", "status"},
	)

	ModelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuroshim",
			Subsystem: "runtime",
			Name:      "model_loads_total",
			Help:      "Total model load attempts",
		},
		[]string{"backend", "status"},
	)

	ResolveFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neuroshim",
			Subsystem: "resolver",
			Name:      "failures_total",
			Help:      "Model path resolutions that found no artifact",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SessionsActive,
		SessionsCreatedTotal,
		InferencesTotal,
		ModelLoadsTotal,
		ResolveFailuresTotal,
	)
}
