package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		checkoutSessionsTotal,
		paymentsRevenueTotal,
		subscriptionActivationsTotal,
	)
}

var (
	checkoutSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_total",
			Help: "Checkout sessions created, labeled by plan tier and outcome (created/failed).",
		},
		[]string{"tier", "outcome"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "The total monetary value of confirmed payments in the smallest currency unit, labeled by currency.",
		},
		[]string{"currency"},
	)

	subscriptionActivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_activations_total",
			Help: "Subscription activations by confirmation path (verify/webhook) and tier.",
		},
		[]string{"path", "tier"},
	)
)

func IncCheckoutSession(tier, outcome string) {
	checkoutSessionsTotal.WithLabelValues(norm(tier), norm(outcome)).Inc()
}

func AddPaymentRevenue(currency string, amount int64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}

func IncSubscriptionActivation(path, tier string) {
	subscriptionActivationsTotal.WithLabelValues(norm(path), norm(tier)).Inc()
}
