package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	TerminalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fractalpulse",
			Subsystem: "terminal",
			Name:      "latency_seconds",
			Help:      "Latency of terminal endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	TerminalErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fractalpulse",
			Subsystem: "terminal",
			Name:      "errors_total",
			Help:      "Errors by terminal endpoint",
		},
		[]string{"endpoint"},
	)

	TerminalCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fractalpulse",
			Subsystem: "terminal",
			Name:      "cache_hits_total",
			Help:      "Cache hits by terminal endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(TerminalLatency, TerminalErrors, TerminalCacheHits)
	})
}
