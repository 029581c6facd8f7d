package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(subscriptionsExpiredTotal)
}

var subscriptionsExpiredTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "subscriptions_expired_total",
		Help: "Profiles deactivated because their paid term lapsed.",
	},
)

func IncSubscriptionsExpired(n int) {
	if n > 0 {
		subscriptionsExpiredTotal.Add(float64(n))
	}
}
