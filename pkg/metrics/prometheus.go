package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	headersRouted *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	signalsTotal  *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		headersRouted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fractalpulse_headers_routed_total",
				Help: "Total number of headers routed to a backend",
			},
			[]string{"backend", "symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fractalpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fractalpulse_signals_total",
				Help: "Derived signals by symbol, signal, and risk level",
			},
			[]string{"symbol", "signal", "risk"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fractalpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordHeaderRouted records a header routed to a backend.
func (r *Recorder) RecordHeaderRouted(backend, symbol string) {
	r.headersRouted.WithLabelValues(backend, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSignal records a derived signal outcome.
func (r *Recorder) RecordSignal(symbol, signal, risk string) {
	r.signalsTotal.WithLabelValues(symbol, signal, risk).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
