// Package metrics exposes Prometheus collectors for the storefront.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business metrics
var (
	CartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCartOperations,
			Help: HelpTextCartOperations,
		},
		[]string{LabelOperation, LabelOutcome},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAuthAttempts,
			Help: HelpTextAuthAttempts,
		},
		[]string{LabelOperation, LabelOutcome},
	)
)

// RecordCart counts one cart operation.
func RecordCart(op, outcome string) {
	CartOperations.WithLabelValues(op, outcome).Inc()
}

// RecordAuth counts one authentication attempt.
func RecordAuth(op, outcome string) {
	AuthAttempts.WithLabelValues(op, outcome).Inc()
}
