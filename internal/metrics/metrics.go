// Package metrics defines Prometheus metrics for the share-link service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smarted_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarted_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarted_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	// ActionsTotal counts audited action attempts by action and outcome code.
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarted_actions_total",
			Help: "Audited action attempts by outcome",
		},
		[]string{"action", "outcome"},
	)

	// LinkResolutions counts public gate resolutions by outcome code.
	LinkResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smarted_link_resolutions_total",
			Help: "Public share-link resolutions by outcome",
		},
		[]string{"outcome"},
	)

	AuditWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "smarted_audit_write_failures_total",
			Help: "Audit records that could not be persisted",
		},
	)

	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "smarted_audit_queue_depth",
			Help: "Current async audit queue depth",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "smarted_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		ActionsTotal, LinkResolutions,
		AuditWriteFailures, AuditQueueDepth,
		WSConnections,
	)
}
