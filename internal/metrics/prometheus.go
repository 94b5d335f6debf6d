// File: internal/metrics/prometheus.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics contains all Prometheus metrics for the health SMS relay
type PrometheusMetrics struct {
	// Webhook message metrics
	MessagesReceivedTotal *prometheus.CounterVec
	EntriesLoggedTotal    prometheus.Counter
	UrgencyReported       prometheus.Histogram

	// Outbound SMS metrics
	SMSSentTotal    *prometheus.CounterVec
	SMSSendDuration prometheus.Histogram

	// Entry store metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec

	// Check-in trigger metrics
	CheckinTriggersTotal *prometheus.CounterVec

	// API metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Application health metrics
	ApplicationUptime prometheus.Gauge
	ComponentHealth   *prometheus.GaugeVec
	MemoryUsage       prometheus.Gauge
	GoroutineCount    prometheus.Gauge
}

// NewPrometheusMetrics creates and registers all Prometheus metrics
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		MessagesReceivedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "health_relay_messages_received_total",
				Help: "Total number of inbound webhook messages by classification",
			},
			[]string{"kind"},
		),

		EntriesLoggedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "health_relay_entries_logged_total",
				Help: "Total number of health log entries appended to the store",
			},
		),

		UrgencyReported: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "health_relay_urgency_reported",
				Help:    "Distribution of reported urgency ratings",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
		),

		SMSSentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "health_relay_sms_sent_total",
				Help: "Total number of outbound SMS sends by status",
			},
			[]string{"status"},
		),

		SMSSendDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "health_relay_sms_send_duration_seconds",
				Help:    "Duration of outbound SMS relay calls",
				Buckets: prometheus.DefBuckets,
			},
		),

		StoreOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "health_relay_store_operations_total",
				Help: "Total number of entry store operations by status",
			},
			[]string{"operation", "status"},
		),

		StoreOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "health_relay_store_operation_duration_seconds",
				Help:    "Duration of entry store operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		CheckinTriggersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "health_relay_checkin_triggers_total",
				Help: "Total number of daily check-in trigger calls by outcome",
			},
			[]string{"outcome"},
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "health_relay_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "health_relay_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		ApplicationUptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "health_relay_uptime_seconds",
				Help: "Application uptime in seconds",
			},
		),

		ComponentHealth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "health_relay_component_health",
				Help: "Component health status (1 = healthy, 0 = unhealthy)",
			},
			[]string{"component"},
		),

		MemoryUsage: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "health_relay_memory_usage_bytes",
				Help: "Current memory usage in bytes",
			},
		),

		GoroutineCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "health_relay_goroutines",
				Help: "Current number of goroutines",
			},
		),
	}
}

// RecordMessage records an inbound message classification
func (pm *PrometheusMetrics) RecordMessage(kind string) {
	pm.MessagesReceivedTotal.WithLabelValues(kind).Inc()
}

// RecordEntryLogged records a successfully appended entry
func (pm *PrometheusMetrics) RecordEntryLogged(urgency int) {
	pm.EntriesLoggedTotal.Inc()
	pm.UrgencyReported.Observe(float64(urgency))
}

// RecordSMS records an outbound SMS attempt
func (pm *PrometheusMetrics) RecordSMS(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	pm.SMSSentTotal.WithLabelValues(status).Inc()
	pm.SMSSendDuration.Observe(duration.Seconds())
}

// RecordStoreOperation records an entry store operation
func (pm *PrometheusMetrics) RecordStoreOperation(operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	pm.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	pm.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCheckinTrigger records a daily check-in trigger outcome
func (pm *PrometheusMetrics) RecordCheckinTrigger(outcome string) {
	pm.CheckinTriggersTotal.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request
func (pm *PrometheusMetrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	pm.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	pm.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// UpdateComponentHealth updates a component health gauge
func (pm *PrometheusMetrics) UpdateComponentHealth(component string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	pm.ComponentHealth.WithLabelValues(component).Set(value)
}

// UpdateApplicationUptime updates the uptime gauge
func (pm *PrometheusMetrics) UpdateApplicationUptime(startTime time.Time) {
	pm.ApplicationUptime.Set(time.Since(startTime).Seconds())
}

// UpdateMemoryUsage updates the memory usage gauge
func (pm *PrometheusMetrics) UpdateMemoryUsage(bytes uint64) {
	pm.MemoryUsage.Set(float64(bytes))
}

// UpdateGoroutineCount updates the goroutine gauge
func (pm *PrometheusMetrics) UpdateGoroutineCount(count int) {
	pm.GoroutineCount.Set(float64(count))
}
