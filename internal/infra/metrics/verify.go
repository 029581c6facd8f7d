package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		SessionVerifyRequests,
		SessionVerifyDuration,
	)
}

var (
	// Count of verify calls grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): bad_json|missing_session_id|not_paid|missing_user_id|gateway_error|unknown
	SessionVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_verify_requests_total",
			Help: "Count of /api/v1/verify-session calls by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of verify handler grouped by result.
	SessionVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "session_verify_duration_seconds",
			Help:    "Duration of /api/v1/verify-session handler in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)
)

func IncSessionVerify(result, reason string) {
	SessionVerifyRequests.WithLabelValues(norm(result), norm(reason)).Inc()
}

func ObserveSessionVerify(result string, seconds float64) {
	SessionVerifyDuration.WithLabelValues(norm(result)).Observe(seconds)
}
