package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		WebhookEventsTotal,
		WebhookRejectedTotal,
	)
}

var (
	// outcome: handled|noop|unhandled|error
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Inbound gateway webhook events by type and outcome.",
		},
		[]string{"type", "outcome"},
	)

	// reason: bad_signature|missing_signature|bad_json|read_error
	WebhookRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_rejected_total",
			Help: "Webhook deliveries rejected before event dispatch, by reason.",
		},
		[]string{"reason"},
	)
)

func IncWebhookEvent(eventType, outcome string) {
	WebhookEventsTotal.WithLabelValues(norm(eventType), norm(outcome)).Inc()
}

func IncWebhookRejected(reason string) {
	WebhookRejectedTotal.WithLabelValues(norm(reason)).Inc()
}
