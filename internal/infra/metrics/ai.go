package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		aiGenerationsTotal,
		aiGenerationDuration,
		aiTokensTotal,
	)
}

var (
	aiGenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_generations_total",
			Help: "AI generation calls by provider and outcome (ok/error/rate_limited).",
		},
		[]string{"provider", "outcome"},
	)

	aiGenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_generation_duration_seconds",
			Help:    "Duration of provider generation calls in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)

	aiTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_total",
			Help: "Token usage reported by the provider, by direction (prompt/completion).",
		},
		[]string{"provider", "direction"},
	)
)

func IncAIGeneration(provider, outcome string) {
	aiGenerationsTotal.WithLabelValues(norm(provider), norm(outcome)).Inc()
}

func ObserveAIGeneration(provider string, seconds float64) {
	aiGenerationDuration.WithLabelValues(norm(provider)).Observe(seconds)
}

func AddAITokens(provider string, prompt, completion int) {
	if prompt > 0 {
		aiTokensTotal.WithLabelValues(norm(provider), "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		aiTokensTotal.WithLabelValues(norm(provider), "completion").Add(float64(completion))
	}
}
