package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"warung-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	LoginCounter      prometheus.Counter
	AuthErrorsCounter prometheus.CounterVec

	// Order metrics
	OrderCreatedCounter    prometheus.Counter
	OrderStatusCounter     prometheus.CounterVec
	OrderValidationCounter prometheus.Counter
	TotalMismatchCounter   prometheus.Counter

	// Chatbot metrics
	WebhookCommandCounter prometheus.CounterVec
	BroadcastCounter      prometheus.Counter

	// Notification gateway metrics
	NotificationCounter prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	initialized bool
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	if initialized {
		return
	}
	initialized = true

	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	LoginCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_attempts_total",
			Help: "Total number of admin login attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "wrong_password", "missing_token", "invalid_token"
	)

	OrderCreatedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_orders_created_total",
			Help: "Total number of orders created",
		},
	)

	OrderStatusCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_status_updates_total",
			Help: "Total number of order status updates",
		},
		[]string{"status"},
	)

	OrderValidationCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_order_validation_errors_total",
			Help: "Total number of rejected order submissions",
		},
	)

	TotalMismatchCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_order_total_mismatch_total",
			Help: "Orders whose submitted total differs from the computed items total",
		},
	)

	WebhookCommandCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_webhook_commands_total",
			Help: "Total number of chatbot commands processed",
		},
		[]string{"command"},
	)

	BroadcastCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_broadcast_messages_total",
			Help: "Total number of broadcast messages sent to mitra",
		},
	)

	NotificationCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_notifications_total",
			Help: "Total number of outbound WhatsApp notifications",
		},
		[]string{"status"}, // "sent", "failed", "skipped"
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)
}

// RecordHTTPRequest records one served request in the counter and
// duration histogram
func RecordHTTPRequest(method, path, status string, seconds float64) {
	if !initialized {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if !initialized {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordNotification increments the outbound notification counter
func RecordNotification(status string) {
	if !initialized {
		return
	}
	NotificationCounter.WithLabelValues(status).Inc()
}

// RecordOrderStatus increments the status update counter
func RecordOrderStatus(status string) {
	if !initialized {
		return
	}
	OrderStatusCounter.WithLabelValues(status).Inc()
}

// RecordWebhookCommand increments the chatbot command counter
func RecordWebhookCommand(command string) {
	if !initialized {
		return
	}
	WebhookCommandCounter.WithLabelValues(command).Inc()
}

// RecordAuthError increments the auth error counter
func RecordAuthError(errType string) {
	if !initialized {
		return
	}
	AuthErrorsCounter.WithLabelValues(errType).Inc()
}

// RecordOrderCreated increments the order creation counter
func RecordOrderCreated() {
	if !initialized {
		return
	}
	OrderCreatedCounter.Inc()
}

// RecordOrderValidationError increments the rejected submission counter
func RecordOrderValidationError() {
	if !initialized {
		return
	}
	OrderValidationCounter.Inc()
}

// RecordTotalMismatch increments the total mismatch audit counter
func RecordTotalMismatch() {
	if !initialized {
		return
	}
	TotalMismatchCounter.Inc()
}

// RecordLogin increments the login attempt counter
func RecordLogin() {
	if !initialized {
		return
	}
	LoginCounter.Inc()
}

// RecordBroadcast increments the broadcast counter
func RecordBroadcast() {
	if !initialized {
		return
	}
	BroadcastCounter.Inc()
}
