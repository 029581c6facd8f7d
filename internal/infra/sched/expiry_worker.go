package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"mealplan-ai-subscription/internal/domain/ports/repository"
	"mealplan-ai-subscription/internal/infra/metrics"
)

// ExpiryWorker periodically deactivates subscriptions whose paid term lapsed.
type ExpiryWorker struct {
	interval time.Duration
	profiles repository.ProfileRepository
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, profiles repository.ProfileRepository, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		profiles: profiles,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.profiles.DeactivateExpired(ctx, time.Now())
			if err != nil {
				w.log.Error().Err(err).Msg("expiry worker error")
				continue
			}
			if n > 0 {
				metrics.IncSubscriptionsExpired(n)
				w.log.Info().Int("count", n).Msg("expired subscriptions deactivated")
			}
		}
	}
}
