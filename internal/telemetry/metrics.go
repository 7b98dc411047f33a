package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beeguard_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "beeguard_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthFailures counts rejected requests. reason is one of missing_credential,
	// invalid_credential, inactive_credential, insufficient_role or cross_tenant.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beeguard_auth_failures_total",
		Help: "Rejected authentication and authorization attempts by reason.",
	}, []string{"reason"})

	ReadingsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "beeguard_readings_ingested_total",
		Help: "Sensor readings stored, by source (device or manual).",
	}, []string{"source"})

	AlertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beeguard_hornet_alerts_total",
		Help: "Hornet alerts delivered.",
	})
)

// RegisterSessionGauge exposes the number of sessions held in memory, expired ones not yet
// purged included.
func RegisterSessionGauge(count func() int) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "beeguard_active_sessions",
		Help: "Sessions held in memory, including expired ones not yet purged.",
	}, func() float64 { return float64(count()) })
}
