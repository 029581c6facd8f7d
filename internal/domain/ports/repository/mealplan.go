package repository

import (
	"context"

	"mealplan-ai-subscription/internal/domain/model"
)

type MealPlanRepository interface {
	Save(ctx context.Context, plan *model.MealPlan) error
	FindByID(ctx context.Context, id string) (*model.MealPlan, error)
	// ListByUser returns the user's saved plans, newest first.
	ListByUser(ctx context.Context, userID string) ([]*model.MealPlan, error)
	Delete(ctx context.Context, userID, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

type FavoriteRepository interface {
	// Save inserts a favorite; saving the same meal twice is a no-op that
	// returns the existing row's id.
	Save(ctx context.Context, fav *model.Favorite) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Favorite, error)
	Delete(ctx context.Context, userID, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
