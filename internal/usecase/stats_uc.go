// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/repository"
)

var _ StatsUseCase = (*statsUC)(nil)

// UserStats summarizes one account for the profile page.
type UserStats struct {
	UserID             string          `json:"userId"`
	Email              string          `json:"email,omitempty"`
	SubscriptionActive bool            `json:"subscriptionActive"`
	PlanType           *model.PlanTier `json:"planType,omitempty"`
	SubscriptionEnd    *time.Time      `json:"subscriptionEndDate,omitempty"`
	SavedPlans         int             `json:"savedPlans"`
	Favorites          int             `json:"favorites"`
}

// PlatformStats is the operator-facing aggregate view.
type PlatformStats struct {
	TotalProfiles int                    `json:"totalProfiles"`
	ActiveByTier  map[model.PlanTier]int `json:"activeByTier"`
}

type StatsUseCase interface {
	UserStats(ctx context.Context, userID string) (*UserStats, error)
	PlatformStats(ctx context.Context) (*PlatformStats, error)
}

type statsUC struct {
	profiles  repository.ProfileRepository
	plans     repository.MealPlanRepository
	favorites repository.FavoriteRepository
	log       *zerolog.Logger
}

func NewStatsUseCase(
	profiles repository.ProfileRepository,
	plans repository.MealPlanRepository,
	favorites repository.FavoriteRepository,
	logger *zerolog.Logger,
) *statsUC {
	l := logger.With().Str("component", "StatsUC").Logger()
	return &statsUC{profiles: profiles, plans: plans, favorites: favorites, log: &l}
}

func (u *statsUC) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	stats := &UserStats{UserID: userID}
	profile, err := u.profiles.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		stats.Email = profile.Email
		stats.SubscriptionActive = profile.SubscriptionActive
		stats.PlanType = profile.SubscriptionTier
		stats.SubscriptionEnd = profile.SubscriptionEndDate
	case errors.Is(err, domain.ErrProfileNotFound):
		// a user with no profile row still gets zeroed stats
	default:
		return nil, err
	}

	if stats.SavedPlans, err = u.plans.CountByUser(ctx, userID); err != nil {
		return nil, err
	}
	if stats.Favorites, err = u.favorites.CountByUser(ctx, userID); err != nil {
		return nil, err
	}
	return stats, nil
}

func (u *statsUC) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	total, err := u.profiles.CountProfiles(ctx)
	if err != nil {
		return nil, err
	}
	byTier, err := u.profiles.CountActiveByTier(ctx)
	if err != nil {
		return nil, err
	}
	return &PlatformStats{TotalProfiles: total, ActiveByTier: byTier}, nil
}
