package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mealplan-ai-subscription/internal/domain/model"
)

var (
	ErrMalformedPlan  = errors.New("ai reply is not a valid meal plan")
	ErrMalformedReply = errors.New("ai reply is not the requested json shape")
)

// BuildPrompt renders the generation prompt from normalized preferences.
// The model is instructed to answer with bare JSON, one key per day.
func BuildPrompt(prefs model.Preferences) string {
	prefs = prefs.Normalize()

	allergies := prefs.Allergies
	if allergies == "" {
		allergies = "none"
	}
	cuisine := prefs.Cuisine
	if cuisine == "" {
		cuisine = "no preference"
	}
	snacks := "no"
	snackLine := ""
	if prefs.IncludeSnacks {
		snacks = "yes"
		snackLine = "\n  - Snacks"
	}

	return fmt.Sprintf(`You are a professional nutritionist. Create a %d-day meal plan for an individual following a %s diet aiming for %d calories per day.

Allergies or restrictions: %s.
Preferred cuisine: %s.
Snacks included: %s.

For each day, provide:
  - Breakfast
  - Lunch
  - Dinner%s

Use simple ingredients and provide brief instructions. Include approximate calorie counts for each meal.

Structure the response as a JSON object where each day is a key, and each meal (breakfast, lunch, dinner, snacks) is a sub-key. Example:

{
  "Monday": {
    "Breakfast": "Oatmeal with fruits - 350 calories",
    "Lunch": "Grilled chicken salad - 500 calories",
    "Dinner": "Steamed vegetables with quinoa - 600 calories",
    "Snacks": "Greek yogurt - 150 calories"
  }
}

Return just the json with no extra commentaries and no backticks.`,
		prefs.PlanDays, prefs.DietType, prefs.DailyCalories, allergies, cuisine, snacks, snackLine)
}

// BuildSwapPrompt renders the prompt asking for alternatives to one meal.
func BuildSwapPrompt(req model.SwapRequest) string {
	diet := req.DietType
	if diet == "" {
		diet = "balanced"
	}
	calories := req.Calories
	if calories <= 0 {
		calories = 500
	}
	allergies := req.Allergies
	if allergies == "" {
		allergies = "none"
	}
	cuisine := req.Cuisine
	if cuisine == "" {
		cuisine = "no preference"
	}

	return fmt.Sprintf(`I need an alternative meal to replace: %q

Requirements:
  - Meal type: %s (Breakfast/Lunch/Dinner/Snack)
  - Diet type: %s
  - Target calories: approximately %d for the meal
  - Allergies/restrictions to avoid: %s
  - Preferred cuisine: %s

Provide 3 alternative meal options that are different from the current meal but similar in nutritional value.

Return a JSON object with the following structure:
{
  "alternatives": [
    {
      "name": "Alternative meal name with brief description - approximately X calories",
      "calories": 450,
      "quickDescription": "A brief 10-word description"
    }
  ]
}

Return just the JSON with no extra text or backticks.`,
		req.CurrentMeal, req.MealType, diet, calories, allergies, cuisine)
}

// BuildShoppingListPrompt renders the prompt aggregating a plan into a
// categorized shopping list.
func BuildShoppingListPrompt(plan model.PlanData) string {
	encoded, _ := json.MarshalIndent(plan, "", "  ")

	return fmt.Sprintf(`Based on the following meal plan, create a comprehensive shopping list organized by category.

Meal Plan:
%s

Create a shopping list with the following categories:
  - Proteins (meat, fish, eggs, tofu, etc.)
  - Dairy & Alternatives
  - Vegetables
  - Fruits
  - Grains & Bread
  - Pantry Items (oils, spices, condiments, etc.)
  - Other

For each item, estimate the quantity needed for the meal plan duration.

Return the response as a JSON object with categories as keys and arrays of items as values.
Each item should have: name, quantity, unit (optional).

Example format:
{
  "Proteins": [
    { "name": "Chicken breast", "quantity": "1", "unit": "lb" }
  ],
  "Vegetables": [
    { "name": "Broccoli", "quantity": "2", "unit": "heads" }
  ]
}

Return just the JSON with no extra text or backticks.`, encoded)
}

// BuildRecipePrompt renders the prompt expanding one meal into a recipe.
func BuildRecipePrompt(req model.RecipeRequest) string {
	mealType := req.MealType
	if mealType == "" {
		mealType = "meal"
	}
	diet := req.DietType
	if diet == "" {
		diet = "balanced"
	}

	return fmt.Sprintf(`You are a professional chef and nutritionist. Provide a detailed recipe for: %q

Consider that this is a %s for someone following a %s diet.

Return a JSON object with the following structure:
{
  "name": "Recipe name",
  "description": "Brief 1-2 sentence description",
  "prepTime": "15 mins",
  "cookTime": "30 mins",
  "totalTime": "45 mins",
  "servings": 2,
  "difficulty": "Easy|Medium|Hard",
  "calories": 450,
  "nutrition": {
    "protein": "25g",
    "carbs": "45g",
    "fat": "15g",
    "fiber": "8g",
    "sugar": "5g",
    "sodium": "400mg"
  },
  "ingredients": [
    { "item": "Chicken breast", "amount": "8", "unit": "oz" }
  ],
  "instructions": [
    "Preheat oven to 400F (200C).",
    "Season chicken with salt and pepper."
  ],
  "tips": [
    "Leftovers can be stored in the refrigerator for up to 3 days."
  ],
  "substitutions": [
    { "original": "Chicken breast", "substitute": "Tofu or tempeh for vegetarian option" }
  ]
}

Return just the JSON with no extra text or backticks.`,
		req.MealName, mealType, diet)
}

// stripFences removes markdown code fences models sometimes wrap the JSON
// in despite instructions.
func stripFences(reply string) string {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParsePlanReply turns a model reply into structured plan data; anything
// malformed is rejected.
func ParsePlanReply(reply string) (model.PlanData, error) {
	var plan model.PlanData
	if err := json.Unmarshal([]byte(stripFences(reply)), &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if len(plan) == 0 {
		return nil, ErrMalformedPlan
	}
	return plan, nil
}

// ParseSwapReply extracts the alternatives array from a swap reply.
func ParseSwapReply(reply string) ([]model.MealAlternative, error) {
	var wrapper struct {
		Alternatives []model.MealAlternative `json:"alternatives"`
	}
	if err := json.Unmarshal([]byte(stripFences(reply)), &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if len(wrapper.Alternatives) == 0 {
		return nil, ErrMalformedReply
	}
	return wrapper.Alternatives, nil
}

// ParseShoppingListReply turns a model reply into a categorized list.
func ParseShoppingListReply(reply string) (model.ShoppingList, error) {
	var list model.ShoppingList
	if err := json.Unmarshal([]byte(stripFences(reply)), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if len(list) == 0 {
		return nil, ErrMalformedReply
	}
	return list, nil
}

// ParseRecipeReply turns a model reply into a recipe.
func ParseRecipeReply(reply string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := json.Unmarshal([]byte(stripFences(reply)), &recipe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if recipe.Name == "" || len(recipe.Ingredients) == 0 {
		return nil, ErrMalformedReply
	}
	return &recipe, nil
}
