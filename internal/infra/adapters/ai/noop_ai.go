package ai

import (
	"context"
	"fmt"

	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/adapter"
)

var _ adapter.MealGenerator = (*NoopGenerator)(nil)

// NoopGenerator returns a canned plan; used in dev mode and tests.
type NoopGenerator struct{}

func (NoopGenerator) Name() string { return "noop" }

func (NoopGenerator) GenerateMealPlan(_ context.Context, prefs model.Preferences) (model.PlanData, adapter.Usage, error) {
	prefs = prefs.Normalize()
	plan := make(model.PlanData, prefs.PlanDays)
	for i := 1; i <= prefs.PlanDays; i++ {
		meals := model.DailyMeals{
			"Breakfast": "Oatmeal with fruits - 350 calories",
			"Lunch":     "Grilled chicken salad - 500 calories",
			"Dinner":    "Steamed vegetables with quinoa - 600 calories",
		}
		if prefs.IncludeSnacks {
			meals["Snacks"] = "Greek yogurt - 150 calories"
		}
		plan[fmt.Sprintf("Day %d", i)] = meals
	}
	return plan, adapter.Usage{}, nil
}

func (NoopGenerator) SuggestAlternatives(_ context.Context, req model.SwapRequest) ([]model.MealAlternative, adapter.Usage, error) {
	return []model.MealAlternative{
		{Name: "Scrambled tofu with spinach - approximately 340 calories", Calories: 340, QuickDescription: "Savory protein-rich skillet ready in ten minutes"},
		{Name: "Greek yogurt parfait with granola - approximately 360 calories", Calories: 360, QuickDescription: "Layered yogurt, berries and crunchy granola"},
		{Name: "Avocado toast with egg - approximately 380 calories", Calories: 380, QuickDescription: "Toasted sourdough, smashed avocado, soft egg"},
	}, adapter.Usage{}, nil
}

func (NoopGenerator) BuildShoppingList(_ context.Context, plan model.PlanData) (model.ShoppingList, adapter.Usage, error) {
	return model.ShoppingList{
		"Proteins":   {{Name: "Chicken breast", Quantity: "1", Unit: "lb"}},
		"Vegetables": {{Name: "Broccoli", Quantity: "2", Unit: "heads"}},
		"Grains & Bread": {
			{Name: "Quinoa", Quantity: "1", Unit: "bag"},
			{Name: "Oats", Quantity: "1", Unit: "box"},
		},
	}, adapter.Usage{}, nil
}

func (NoopGenerator) RecipeDetails(_ context.Context, req model.RecipeRequest) (*model.Recipe, adapter.Usage, error) {
	return &model.Recipe{
		Name:        req.MealName,
		Description: "A simple canned recipe used in development mode.",
		PrepTime:    "10 mins",
		CookTime:    "20 mins",
		TotalTime:   "30 mins",
		Servings:    2,
		Difficulty:  "Easy",
		Calories:    450,
		Nutrition:   map[string]string{"protein": "25g", "carbs": "45g", "fat": "15g"},
		Ingredients: []model.RecipeIngredient{
			{Item: "Chicken breast", Amount: "8", Unit: "oz"},
			{Item: "Olive oil", Amount: "2", Unit: "tbsp"},
		},
		Instructions: []string{
			"Season the chicken with salt and pepper.",
			"Cook in olive oil over medium heat until done.",
		},
	}, adapter.Usage{}, nil
}
