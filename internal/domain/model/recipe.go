package model

// SwapRequest asks for alternatives to one meal of a plan. CurrentMeal and
// MealType are required; the dietary fields default like preferences do.
type SwapRequest struct {
	CurrentMeal string `json:"currentMeal"`
	MealType    string `json:"mealType"`
	DietType    string `json:"dietType,omitempty"`
	Calories    int    `json:"calories,omitempty"`
	Allergies   string `json:"allergies,omitempty"`
	Cuisine     string `json:"cuisine,omitempty"`
}

// MealAlternative is one suggested replacement meal.
type MealAlternative struct {
	Name             string `json:"name"`
	Calories         int    `json:"calories"`
	QuickDescription string `json:"quickDescription"`
}

// ShoppingItem is one line of a shopping list.
type ShoppingItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
}

// ShoppingList groups items by store category ("Proteins", "Vegetables", ...),
// mirroring the JSON shape the generator returns.
type ShoppingList map[string][]ShoppingItem

// RecipeRequest asks for the full recipe of a named meal.
type RecipeRequest struct {
	MealName string `json:"mealName"`
	MealType string `json:"mealType,omitempty"`
	DietType string `json:"dietType,omitempty"`
}

type RecipeIngredient struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Unit   string `json:"unit,omitempty"`
}

type RecipeSubstitution struct {
	Original   string `json:"original"`
	Substitute string `json:"substitute"`
}

// Recipe is the full preparation detail for one meal.
type Recipe struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	PrepTime      string               `json:"prepTime"`
	CookTime      string               `json:"cookTime"`
	TotalTime     string               `json:"totalTime"`
	Servings      int                  `json:"servings"`
	Difficulty    string               `json:"difficulty"`
	Calories      int                  `json:"calories"`
	Nutrition     map[string]string    `json:"nutrition"`
	Ingredients   []RecipeIngredient   `json:"ingredients"`
	Instructions  []string             `json:"instructions"`
	Tips          []string             `json:"tips,omitempty"`
	Substitutions []RecipeSubstitution `json:"substitutions,omitempty"`
}
