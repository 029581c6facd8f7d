// File: internal/usecase/mealplan_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/adapter"
	"mealplan-ai-subscription/internal/domain/ports/repository"
	"mealplan-ai-subscription/internal/infra/metrics"
)

var _ MealPlanUseCase = (*mealPlanUC)(nil)

// RateLimiter gates how often one user may run a generation.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// PlanCache keeps the last generated plan per user.
type PlanCache interface {
	Store(ctx context.Context, userID string, plan model.PlanData) error
	Get(ctx context.Context, userID string) (model.PlanData, error)
}

type MealPlanUseCase interface {
	// Generate produces a plan from the request preferences (falling back
	// to the user's saved ones for zero fields). Requires an active
	// subscription.
	Generate(ctx context.Context, userID string, prefs model.Preferences) (model.PlanData, error)
	// LastGenerated returns the cached result of the user's most recent
	// generation, or nil when none is cached.
	LastGenerated(ctx context.Context, userID string) (model.PlanData, error)
	Save(ctx context.Context, userID, name string, prefs model.Preferences, data model.PlanData) (*model.MealPlan, error)
	List(ctx context.Context, userID string) ([]*model.MealPlan, error)
	Get(ctx context.Context, userID, id string) (*model.MealPlan, error)
	Delete(ctx context.Context, userID, id string) error
	AddFavorite(ctx context.Context, fav *model.Favorite) (string, error)
	ListFavorites(ctx context.Context, userID string) ([]*model.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, id string) error
	// SwapMeal proposes alternatives for one meal of a plan.
	SwapMeal(ctx context.Context, userID string, req model.SwapRequest) ([]model.MealAlternative, error)
	// ShoppingList aggregates a plan into a category-grouped list.
	ShoppingList(ctx context.Context, userID string, plan model.PlanData) (model.ShoppingList, error)
	// RecipeDetails expands a named meal into a full recipe.
	RecipeDetails(ctx context.Context, userID string, req model.RecipeRequest) (*model.Recipe, error)
}

type mealPlanUC struct {
	profiles  repository.ProfileRepository
	plans     repository.MealPlanRepository
	favorites repository.FavoriteRepository
	generator adapter.MealGenerator
	limiter   RateLimiter
	cache     PlanCache
	rateLimit int
	log       *zerolog.Logger
}

func NewMealPlanUseCase(
	profiles repository.ProfileRepository,
	plans repository.MealPlanRepository,
	favorites repository.FavoriteRepository,
	generator adapter.MealGenerator,
	limiter RateLimiter,
	cache PlanCache,
	generationsPerHour int,
	logger *zerolog.Logger,
) *mealPlanUC {
	l := logger.With().Str("component", "MealPlanUC").Logger()
	return &mealPlanUC{
		profiles:  profiles,
		plans:     plans,
		favorites: favorites,
		generator: generator,
		limiter:   limiter,
		cache:     cache,
		rateLimit: generationsPerHour,
		log:       &l,
	}
}

func generationKey(userID string) string { return "rate_limit:" + userID + ":generate" }

func (u *mealPlanUC) Generate(ctx context.Context, userID string, prefs model.Preferences) (model.PlanData, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}

	profile, err := u.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, domain.ErrNoActiveSubscription
		}
		return nil, err
	}
	if !profile.SubscriptionActive {
		return nil, domain.ErrNoActiveSubscription
	}

	// request fields win; saved preferences fill the gaps
	merged := prefs
	if merged.DietType == "" {
		merged.DietType = profile.Preferences.DietType
	}
	if merged.DailyCalories <= 0 {
		merged.DailyCalories = profile.Preferences.DailyCalories
	}
	if merged.Allergies == "" {
		merged.Allergies = profile.Preferences.Allergies
	}
	if merged.Cuisine == "" {
		merged.Cuisine = profile.Preferences.Cuisine
	}
	if merged.PlanDays <= 0 {
		merged.PlanDays = profile.Preferences.PlanDays
	}
	merged = merged.Normalize()

	if u.limiter != nil {
		ok, err := u.limiter.Allow(ctx, generationKey(userID), u.rateLimit, time.Hour)
		if err != nil {
			u.log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		} else if !ok {
			metrics.IncAIGeneration(u.generator.Name(), "rate_limited")
			return nil, domain.ErrRateLimited
		}
	}

	start := time.Now()
	plan, usage, err := u.generator.GenerateMealPlan(ctx, merged)
	metrics.ObserveAIGeneration(u.generator.Name(), time.Since(start).Seconds())
	if err != nil {
		metrics.IncAIGeneration(u.generator.Name(), "error")
		u.log.Error().Err(err).Str("user_id", userID).Msg("meal plan generation failed")
		return nil, err
	}
	metrics.IncAIGeneration(u.generator.Name(), "ok")
	metrics.AddAITokens(u.generator.Name(), usage.PromptTokens, usage.CompletionTokens)

	if u.cache != nil {
		if err := u.cache.Store(ctx, userID, plan); err != nil {
			u.log.Warn().Err(err).Msg("could not cache generated plan")
		}
	}
	return plan, nil
}

func (u *mealPlanUC) LastGenerated(ctx context.Context, userID string) (model.PlanData, error) {
	if u.cache == nil {
		return nil, nil
	}
	return u.cache.Get(ctx, userID)
}

func (u *mealPlanUC) Save(ctx context.Context, userID, name string, prefs model.Preferences, data model.PlanData) (*model.MealPlan, error) {
	plan, err := model.NewMealPlan(ulid.Make().String(), userID, name, prefs, data)
	if err != nil {
		return nil, err
	}
	if err := u.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (u *mealPlanUC) List(ctx context.Context, userID string) ([]*model.MealPlan, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.plans.ListByUser(ctx, userID)
}

func (u *mealPlanUC) Get(ctx context.Context, userID, id string) (*model.MealPlan, error) {
	plan, err := u.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

func (u *mealPlanUC) Delete(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return domain.ErrInvalidArgument
	}
	return u.plans.Delete(ctx, userID, id)
}

func (u *mealPlanUC) AddFavorite(ctx context.Context, fav *model.Favorite) (string, error) {
	if fav == nil || fav.UserID == "" || fav.MealPlanID == "" || fav.MealName == "" {
		return "", domain.ErrInvalidArgument
	}
	// the referenced plan must exist and belong to the caller
	if _, err := u.Get(ctx, fav.UserID, fav.MealPlanID); err != nil {
		return "", err
	}
	fav.ID = ulid.Make().String()
	fav.CreatedAt = time.Now()
	return u.favorites.Save(ctx, fav)
}

func (u *mealPlanUC) ListFavorites(ctx context.Context, userID string) ([]*model.Favorite, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.favorites.ListByUser(ctx, userID)
}

func (u *mealPlanUC) RemoveFavorite(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return domain.ErrInvalidArgument
	}
	return u.favorites.Delete(ctx, userID, id)
}

func (u *mealPlanUC) SwapMeal(ctx context.Context, userID string, req model.SwapRequest) ([]model.MealAlternative, error) {
	if userID == "" || req.CurrentMeal == "" || req.MealType == "" {
		return nil, domain.ErrInvalidArgument
	}

	start := time.Now()
	alts, usage, err := u.generator.SuggestAlternatives(ctx, req)
	metrics.ObserveAIGeneration(u.generator.Name(), time.Since(start).Seconds())
	if err != nil {
		metrics.IncAIGeneration(u.generator.Name(), "error")
		u.log.Error().Err(err).Str("user_id", userID).Msg("meal swap failed")
		return nil, err
	}
	metrics.IncAIGeneration(u.generator.Name(), "ok")
	metrics.AddAITokens(u.generator.Name(), usage.PromptTokens, usage.CompletionTokens)
	return alts, nil
}

func (u *mealPlanUC) ShoppingList(ctx context.Context, userID string, plan model.PlanData) (model.ShoppingList, error) {
	if userID == "" || len(plan) == 0 {
		return nil, domain.ErrInvalidArgument
	}

	start := time.Now()
	list, usage, err := u.generator.BuildShoppingList(ctx, plan)
	metrics.ObserveAIGeneration(u.generator.Name(), time.Since(start).Seconds())
	if err != nil {
		metrics.IncAIGeneration(u.generator.Name(), "error")
		u.log.Error().Err(err).Str("user_id", userID).Msg("shopping list generation failed")
		return nil, err
	}
	metrics.IncAIGeneration(u.generator.Name(), "ok")
	metrics.AddAITokens(u.generator.Name(), usage.PromptTokens, usage.CompletionTokens)
	return list, nil
}

func (u *mealPlanUC) RecipeDetails(ctx context.Context, userID string, req model.RecipeRequest) (*model.Recipe, error) {
	if userID == "" || req.MealName == "" {
		return nil, domain.ErrInvalidArgument
	}

	start := time.Now()
	recipe, usage, err := u.generator.RecipeDetails(ctx, req)
	metrics.ObserveAIGeneration(u.generator.Name(), time.Since(start).Seconds())
	if err != nil {
		metrics.IncAIGeneration(u.generator.Name(), "error")
		u.log.Error().Err(err).Str("user_id", userID).Msg("recipe generation failed")
		return nil, err
	}
	metrics.IncAIGeneration(u.generator.Name(), "ok")
	metrics.AddAITokens(u.generator.Name(), usage.PromptTokens, usage.CompletionTokens)
	return recipe, nil
}
