//go:build !integration

package web_test

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// ---- usecase mocks, one func field per operation ----

type mockBillingUC struct {
	InitiateCheckoutFunc   func(ctx context.Context, userID, email string, tier model.PlanTier) (string, error)
	InitiatePlanChangeFunc func(ctx context.Context, userID string, newTier model.PlanTier) (string, error)
	VerifySessionFunc      func(ctx context.Context, sessionID string) error
	UnsubscribeFunc        func(ctx context.Context, userID string) error
}

var _ usecase.BillingUseCase = (*mockBillingUC)(nil)

func (m *mockBillingUC) InitiateCheckout(ctx context.Context, userID, email string, tier model.PlanTier) (string, error) {
	if m.InitiateCheckoutFunc != nil {
		return m.InitiateCheckoutFunc(ctx, userID, email, tier)
	}
	return "https://checkout.example/cs_test", nil
}

func (m *mockBillingUC) InitiatePlanChange(ctx context.Context, userID string, newTier model.PlanTier) (string, error) {
	if m.InitiatePlanChangeFunc != nil {
		return m.InitiatePlanChangeFunc(ctx, userID, newTier)
	}
	return "https://checkout.example/cs_change", nil
}

func (m *mockBillingUC) VerifySession(ctx context.Context, sessionID string) error {
	if m.VerifySessionFunc != nil {
		return m.VerifySessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockBillingUC) ActivateSubscription(ctx context.Context, meta model.CheckoutMetadata, sessionID, path string) error {
	return nil
}

func (m *mockBillingUC) Unsubscribe(ctx context.Context, userID string) error {
	if m.UnsubscribeFunc != nil {
		return m.UnsubscribeFunc(ctx, userID)
	}
	return nil
}

type mockWebhookUC struct {
	ProcessEventFunc func(ctx context.Context, ev *usecase.GatewayEvent) (string, error)
	Processed        []*usecase.GatewayEvent
}

var _ usecase.WebhookUseCase = (*mockWebhookUC)(nil)

func (m *mockWebhookUC) ProcessEvent(ctx context.Context, ev *usecase.GatewayEvent) (string, error) {
	m.Processed = append(m.Processed, ev)
	if m.ProcessEventFunc != nil {
		return m.ProcessEventFunc(ctx, ev)
	}
	return usecase.OutcomeHandled, nil
}

type mockPreferenceUC struct {
	GetFunc    func(ctx context.Context, userID string) (model.Preferences, error)
	UpdateFunc func(ctx context.Context, userID, email string, prefs model.Preferences) (model.Preferences, error)
}

var _ usecase.PreferenceUseCase = (*mockPreferenceUC)(nil)

func (m *mockPreferenceUC) Get(ctx context.Context, userID string) (model.Preferences, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return model.DefaultPreferences(), nil
}

func (m *mockPreferenceUC) Update(ctx context.Context, userID, email string, prefs model.Preferences) (model.Preferences, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, email, prefs)
	}
	return prefs.Normalize(), nil
}

type mockMealPlanUC struct {
	GenerateFunc func(ctx context.Context, userID string, prefs model.Preferences) (model.PlanData, error)
	GetFunc      func(ctx context.Context, userID, id string) (*model.MealPlan, error)
	DeleteFunc   func(ctx context.Context, userID, id string) error
	SwapFunc     func(ctx context.Context, userID string, req model.SwapRequest) ([]model.MealAlternative, error)
	ShoppingFunc func(ctx context.Context, userID string, plan model.PlanData) (model.ShoppingList, error)
	RecipeFunc   func(ctx context.Context, userID string, req model.RecipeRequest) (*model.Recipe, error)
}

var _ usecase.MealPlanUseCase = (*mockMealPlanUC)(nil)

func (m *mockMealPlanUC) Generate(ctx context.Context, userID string, prefs model.Preferences) (model.PlanData, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, userID, prefs)
	}
	return model.PlanData{"day1": {"breakfast": "Oatmeal"}}, nil
}

func (m *mockMealPlanUC) LastGenerated(ctx context.Context, userID string) (model.PlanData, error) {
	return nil, nil
}

func (m *mockMealPlanUC) Save(ctx context.Context, userID, name string, prefs model.Preferences, data model.PlanData) (*model.MealPlan, error) {
	return model.NewMealPlan("01TESTULID", userID, name, prefs, data)
}

func (m *mockMealPlanUC) List(ctx context.Context, userID string) ([]*model.MealPlan, error) {
	return nil, nil
}

func (m *mockMealPlanUC) Get(ctx context.Context, userID, id string) (*model.MealPlan, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockMealPlanUC) Delete(ctx context.Context, userID, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (m *mockMealPlanUC) AddFavorite(ctx context.Context, fav *model.Favorite) (string, error) {
	return "01FAVULID", nil
}

func (m *mockMealPlanUC) ListFavorites(ctx context.Context, userID string) ([]*model.Favorite, error) {
	return nil, nil
}

func (m *mockMealPlanUC) RemoveFavorite(ctx context.Context, userID, id string) error {
	return nil
}

func (m *mockMealPlanUC) SwapMeal(ctx context.Context, userID string, req model.SwapRequest) ([]model.MealAlternative, error) {
	if m.SwapFunc != nil {
		return m.SwapFunc(ctx, userID, req)
	}
	return []model.MealAlternative{{Name: "Tofu scramble", Calories: 340}}, nil
}

func (m *mockMealPlanUC) ShoppingList(ctx context.Context, userID string, plan model.PlanData) (model.ShoppingList, error) {
	if m.ShoppingFunc != nil {
		return m.ShoppingFunc(ctx, userID, plan)
	}
	return model.ShoppingList{"Proteins": {{Name: "Chicken breast", Quantity: "1", Unit: "lb"}}}, nil
}

func (m *mockMealPlanUC) RecipeDetails(ctx context.Context, userID string, req model.RecipeRequest) (*model.Recipe, error) {
	if m.RecipeFunc != nil {
		return m.RecipeFunc(ctx, userID, req)
	}
	return &model.Recipe{Name: req.MealName, Servings: 2}, nil
}

type mockStatsUC struct {
	UserStatsFunc func(ctx context.Context, userID string) (*usecase.UserStats, error)
}

var _ usecase.StatsUseCase = (*mockStatsUC)(nil)

func (m *mockStatsUC) UserStats(ctx context.Context, userID string) (*usecase.UserStats, error) {
	if m.UserStatsFunc != nil {
		return m.UserStatsFunc(ctx, userID)
	}
	return &usecase.UserStats{UserID: userID}, nil
}

func (m *mockStatsUC) PlatformStats(ctx context.Context) (*usecase.PlatformStats, error) {
	return &usecase.PlatformStats{}, nil
}
