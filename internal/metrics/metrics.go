// Package metrics exposes prometheus instrumentation for the HTTP surface
// and the tiered store.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors registered for the service.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInFlight  prometheus.Gauge
	storeOps      *prometheus.CounterVec
	storeFallback *prometheus.CounterVec
}

// New registers the service collectors on the given registerer. Pass
// prometheus.DefaultRegisterer outside tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sololife_http_requests_total",
			Help: "HTTP requests by service, method, path and status.",
		}, []string{"service", "method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sololife_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sololife_http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
		storeOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sololife_store_operations_total",
			Help: "Store operations by backend tier, operation and outcome.",
		}, []string{"backend", "operation", "outcome"}),
		storeFallback: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sololife_store_fallbacks_total",
			Help: "Operations that fell through a failed tier to the next one.",
		}, []string{"backend", "operation"}),
	}
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(service, method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(service, method, path, status).Inc()
	m.httpDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// IncrementInFlight marks a request as started.
func (m *Metrics) IncrementInFlight() { m.httpInFlight.Inc() }

// DecrementInFlight marks a request as finished.
func (m *Metrics) DecrementInFlight() { m.httpInFlight.Dec() }

// RecordStoreOp records one backend operation outcome ("ok" or "error").
func (m *Metrics) RecordStoreOp(backend, operation, outcome string) {
	m.storeOps.WithLabelValues(backend, operation, outcome).Inc()
}

// RecordStoreFallback records an operation degrading past a failed tier.
func (m *Metrics) RecordStoreFallback(backend, operation string) {
	m.storeFallback.WithLabelValues(backend, operation).Inc()
}
