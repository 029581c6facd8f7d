package model

import (
	"time"

	"mealplan-ai-subscription/internal/domain"
)

// DailyMeals maps a meal slot ("Breakfast", "Lunch", ...) to its description.
type DailyMeals map[string]string

// PlanData maps a day name to its meals, mirroring the JSON shape the
// generator returns.
type PlanData map[string]DailyMeals

// MealPlan is a saved, named generation result together with the inputs
// that produced it.
type MealPlan struct {
	ID        string    `json:"id"` // ULID
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	DietType  string    `json:"dietType"`
	Calories  int       `json:"calories"`
	Allergies string    `json:"allergies,omitempty"`
	Cuisine   string    `json:"cuisine,omitempty"`
	Days      int       `json:"days"`
	Snacks    bool      `json:"snacks"`
	PlanData  PlanData  `json:"planData"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMealPlan validates and constructs a meal plan record.
func NewMealPlan(id, userID, name string, prefs Preferences, data PlanData) (*MealPlan, error) {
	if id == "" || userID == "" || len(data) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	prefs = prefs.Normalize()
	if name == "" {
		name = prefs.DietType + " Plan - " + time.Now().Format("2006-01-02")
	}
	return &MealPlan{
		ID:        id,
		UserID:    userID,
		Name:      name,
		DietType:  prefs.DietType,
		Calories:  prefs.DailyCalories,
		Allergies: prefs.Allergies,
		Cuisine:   prefs.Cuisine,
		Days:      prefs.PlanDays,
		Snacks:    prefs.IncludeSnacks,
		PlanData:  data,
		CreatedAt: time.Now(),
	}, nil
}

// Favorite marks a single meal inside a saved plan.
type Favorite struct {
	ID         string    `json:"id"` // ULID
	UserID     string    `json:"userId"`
	MealPlanID string    `json:"mealPlanId"`
	MealDay    string    `json:"mealDay"`
	MealType   string    `json:"mealType"`
	MealName   string    `json:"mealName"`
	Calories   int       `json:"calories,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
