package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusRecorder struct {
	counters  *prometheus.CounterVec
	histogram *prometheus.HistogramVec
}

// NewPrometheusRecorder registers and returns the sovtoken metric set:
// event counters keyed by event and request type, and per-operation build
// latency.
func NewPrometheusRecorder() Recorder {
	counters := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sovtoken",
			Name:      "events_total",
			Help:      "sovtoken request build and parse events",
		},
		[]string{"event", "request"},
	)

	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sovtoken",
			Name:      "latency_seconds",
			Help:      "sovtoken operation latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "request"},
	)

	prometheus.MustRegister(counters, histogram)

	return &PrometheusRecorder{
		counters:  counters,
		histogram: histogram,
	}
}

func (p *PrometheusRecorder) IncCounter(name string, labels map[string]string) {
	p.counters.With(prometheus.Labels{
		"event":   name,
		"request": labels["request"],
	}).Inc()
}

func (p *PrometheusRecorder) ObserveLatency(name string, d time.Duration, labels map[string]string) {
	p.histogram.With(prometheus.Labels{
		"operation": name,
		"request":   labels["request"],
	}).Observe(d.Seconds())
}
