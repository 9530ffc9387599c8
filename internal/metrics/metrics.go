// Package metrics holds the prometheus collectors for the reclamation lifecycle
// and the notification pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for lifecycle and delivery.
type Metrics struct {
	// Successful lifecycle operations by action (create, take_in_charge, process, set_status, update, delete)
	Operations *prometheus.CounterVec

	// Rejected operations by operation and error code
	OperationErrors *prometheus.CounterVec

	// Identity gate latency by call (exists, profile) and outcome (ok, error)
	IdentityLatency *prometheus.HistogramVec

	// Notification outcomes: pending, sent, failed, dispatch_error
	Notifications *prometheus.CounterVec

	DeliveryLatency   prometheus.Histogram
	DeliveriesRunning prometheus.Gauge

	// HTTP request latency by method, route pattern and status code
	HTTPRequests *prometheus.HistogramVec
}

// New creates a Metrics instance registered on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reclam_operations_total",
			Help: "Successful reclamation operations by action",
		}, []string{"action"}),

		OperationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reclam_operation_errors_total",
			Help: "Rejected reclamation operations by operation and error code",
		}, []string{"operation", "code"}),

		IdentityLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reclam_identity_duration_seconds",
			Help:    "Duration of identity gate calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"call", "outcome"}),

		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reclam_notifications_total",
			Help: "Notification records by outcome",
		}, []string{"outcome"}),

		DeliveryLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reclam_delivery_duration_seconds",
			Help:    "Duration of a single delivery attempt",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		DeliveriesRunning: f.NewGauge(prometheus.GaugeOpts{
			Name: "reclam_deliveries_in_flight",
			Help: "Delivery attempts currently running",
		}),

		HTTPRequests: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reclam_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// IncOperation records a successful operation.
func (m *Metrics) IncOperation(action string) {
	if m != nil {
		m.Operations.WithLabelValues(action).Inc()
	}
}

// IncOperationError records a rejected operation.
func (m *Metrics) IncOperationError(operation, code string) {
	if m != nil {
		m.OperationErrors.WithLabelValues(operation, code).Inc()
	}
}

// ObserveIdentity records the duration of an identity gate call.
func (m *Metrics) ObserveIdentity(call string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.IdentityLatency.WithLabelValues(call, outcome).Observe(d.Seconds())
}

// IncNotification records a notification outcome.
func (m *Metrics) IncNotification(outcome string) {
	if m != nil {
		m.Notifications.WithLabelValues(outcome).Inc()
	}
}

// DeliveryStarted marks a delivery attempt as running.
func (m *Metrics) DeliveryStarted() {
	if m != nil {
		m.DeliveriesRunning.Inc()
	}
}

// DeliveryFinished records the attempt duration and marks it done.
func (m *Metrics) DeliveryFinished(d time.Duration) {
	if m != nil {
		m.DeliveriesRunning.Dec()
		m.DeliveryLatency.Observe(d.Seconds())
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
