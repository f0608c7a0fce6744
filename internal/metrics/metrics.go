// Package metrics defines the Prometheus instrumentation for the help bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Send API metrics
	SendRequestsTotal   *prometheus.CounterVec
	SendDurationSeconds *prometheus.HistogramVec

	// Security metrics
	SignatureFailuresTotal *prometheus.CounterVec

	// Menu metrics
	MenuRepliesTotal   *prometheus.CounterVec
	MenuFallbacksTotal *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitedEventsTotal prometheus.Counter
	RateLimiterSenders     prometheus.Gauge
}

// New creates a Metrics instance with all metrics registered on registry.
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpbot_webhook_requests_total",
				Help: "Total number of webhook events by event type and status",
			},
			[]string{"event_type", "status"}, // status: success, error, skipped, rate_limited
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "helpbot_webhook_duration_seconds",
				Help:    "Webhook event processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"event_type"}, // event_type: message, postback, delivery, read, ...
		),

		SendRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpbot_send_requests_total",
				Help: "Total number of Send API calls by message kind and status",
			},
			[]string{"kind", "status"}, // kind: text, quick_reply, carousel, attachment, sender_action
		),

		SendDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "helpbot_send_duration_seconds",
				Help:    "Send API call duration in seconds by message kind",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"kind"},
		),

		SignatureFailuresTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpbot_signature_failures_total",
				Help: "Total number of rejected webhook deliveries by reason",
			},
			[]string{"reason"}, // reason: missing, mismatch
		),

		MenuRepliesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpbot_menu_replies_total",
				Help: "Total number of menu replies by topic and navigation mode",
			},
			[]string{"topic", "mode"},
		),

		MenuFallbacksTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helpbot_menu_fallbacks_total",
				Help: "Total number of top-level prompt fallbacks by cause",
			},
			[]string{"cause"}, // cause: unknown_token, free_text, restart, degenerate_carousel
		),

		RateLimitedEventsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "helpbot_rate_limited_events_total",
				Help: "Total number of webhook events dropped by the per-sender flood limiter",
			},
		),

		RateLimiterSenders: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "helpbot_rate_limiter_senders",
				Help: "Number of senders currently tracked by the flood limiter",
			},
		),
	}
}

// RecordWebhook records one processed webhook event.
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordSend records one Send API call.
func (m *Metrics) RecordSend(kind, status string, duration float64) {
	m.SendRequestsTotal.WithLabelValues(kind, status).Inc()
	m.SendDurationSeconds.WithLabelValues(kind).Observe(duration)
}

// RecordSignatureFailure records a rejected webhook delivery.
func (m *Metrics) RecordSignatureFailure(reason string) {
	m.SignatureFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordMenuReply records a reply produced by the menu state machine.
func (m *Metrics) RecordMenuReply(topic, mode string) {
	m.MenuRepliesTotal.WithLabelValues(topic, mode).Inc()
}

// RecordMenuFallback records a fall back to the top-level prompt.
func (m *Metrics) RecordMenuFallback(cause string) {
	m.MenuFallbacksTotal.WithLabelValues(cause).Inc()
}

// RecordRateLimiterDrop records a webhook event dropped by flood control.
func (m *Metrics) RecordRateLimiterDrop() {
	m.RateLimitedEventsTotal.Inc()
}

// SetRateLimiterSenders updates the tracked sender count gauge.
func (m *Metrics) SetRateLimiterSenders(count int) {
	m.RateLimiterSenders.Set(float64(count))
}
