package adapter

import (
	"context"

	"mealplan-ai-subscription/internal/domain/model"
)

// Usage reports token consumption of one generation call, when the
// provider exposes it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// MealGenerator produces structured meal content: multi-day plans from
// dietary preferences plus the per-meal helpers built on top of them.
type MealGenerator interface {
	Name() string
	GenerateMealPlan(ctx context.Context, prefs model.Preferences) (model.PlanData, Usage, error)
	// SuggestAlternatives proposes replacement meals of similar
	// nutritional value for one slot of a plan.
	SuggestAlternatives(ctx context.Context, req model.SwapRequest) ([]model.MealAlternative, Usage, error)
	// BuildShoppingList aggregates a plan's ingredients into a
	// category-grouped shopping list.
	BuildShoppingList(ctx context.Context, plan model.PlanData) (model.ShoppingList, Usage, error)
	// RecipeDetails expands a named meal into a full recipe.
	RecipeDetails(ctx context.Context, req model.RecipeRequest) (*model.Recipe, Usage, error)
}
