package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Instrumentation struct {
	CounterRequests           *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterGenerations        *prometheus.CounterVec
	GaugeRequests             prometheus.Gauge
	HistRequestDuration       *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewInstrumentation registers on the default registry, next to the video resolver metrics.
func NewInstrumentation(namespace string) *Instrumentation {
	return NewInstrumentationWithRegistry(namespace, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func NewTestInstrumentation() *Instrumentation {
	reg := prometheus.NewRegistry()
	return NewInstrumentationWithRegistry("workout", reg, reg)
}

func NewInstrumentationWithRegistry(namespace string, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Instrumentation {
	factory := promauto.With(reg)

	return &Instrumentation{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"method", "route", "status"}),
		CounterHandleRequestPanic: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "handle_request_panic_total",
			Help:      "The total number of serve request panics",
		}),
		CounterGenerations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generator",
			Name:      "generations_total",
			Help:      "Workout generations by outcome",
		}, []string{"outcome"}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests by route",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"route"}),
		gatherer: gatherer,
	}
}

func (i *Instrumentation) Gatherer() prometheus.Gatherer {
	return i.gatherer
}
