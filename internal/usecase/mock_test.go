//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/adapter"
	"mealplan-ai-subscription/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// ---- Mock PaymentGateway (adapter) ----

type MockPaymentGateway struct {
	NameVal string

	CreateFunc   func(ctx context.Context, spec adapter.CheckoutSpec) (*adapter.CheckoutSession, error)
	RetrieveFunc func(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error)
	ExpireFunc   func(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error)

	LastSpec *adapter.CheckoutSpec
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string {
	if m.NameVal == "" {
		return "mockpay"
	}
	return m.NameVal
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, spec adapter.CheckoutSpec) (*adapter.CheckoutSession, error) {
	cp := spec
	m.LastSpec = &cp
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, spec)
	}
	return &adapter.CheckoutSession{
		ID:          "cs_test_1",
		CheckoutURL: "https://checkout.example/cs_test_1",
		Status:      "pending",
		Metadata:    spec.Metadata,
	}, nil
}

func (m *MockPaymentGateway) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, sessionID)
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	if m.ExpireFunc != nil {
		return m.ExpireFunc(ctx, sessionID)
	}
	return &adapter.CheckoutSession{ID: sessionID, Status: "expired"}, nil
}

// ---- Mock MealGenerator (adapter) ----

type MockMealGenerator struct {
	GenerateFunc     func(ctx context.Context, prefs model.Preferences) (model.PlanData, adapter.Usage, error)
	SwapFunc         func(ctx context.Context, req model.SwapRequest) ([]model.MealAlternative, adapter.Usage, error)
	ShoppingListFunc func(ctx context.Context, plan model.PlanData) (model.ShoppingList, adapter.Usage, error)
	RecipeFunc       func(ctx context.Context, req model.RecipeRequest) (*model.Recipe, adapter.Usage, error)
	Calls            int
	LastPrefs        model.Preferences
	LastSwap         model.SwapRequest
	LastRecipe       model.RecipeRequest
}

var _ adapter.MealGenerator = (*MockMealGenerator)(nil)

func (m *MockMealGenerator) Name() string { return "mockai" }

func (m *MockMealGenerator) GenerateMealPlan(ctx context.Context, prefs model.Preferences) (model.PlanData, adapter.Usage, error) {
	m.Calls++
	m.LastPrefs = prefs
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prefs)
	}
	return model.PlanData{
		"day1": {"breakfast": "Oatmeal", "lunch": "Chicken salad", "dinner": "Grilled fish"},
	}, adapter.Usage{PromptTokens: 100, CompletionTokens: 200}, nil
}

func (m *MockMealGenerator) SuggestAlternatives(ctx context.Context, req model.SwapRequest) ([]model.MealAlternative, adapter.Usage, error) {
	m.Calls++
	m.LastSwap = req
	if m.SwapFunc != nil {
		return m.SwapFunc(ctx, req)
	}
	return []model.MealAlternative{
		{Name: "Tofu scramble - approximately 340 calories", Calories: 340, QuickDescription: "Quick savory skillet"},
	}, adapter.Usage{PromptTokens: 50, CompletionTokens: 80}, nil
}

func (m *MockMealGenerator) BuildShoppingList(ctx context.Context, plan model.PlanData) (model.ShoppingList, adapter.Usage, error) {
	m.Calls++
	if m.ShoppingListFunc != nil {
		return m.ShoppingListFunc(ctx, plan)
	}
	return model.ShoppingList{
		"Proteins": {{Name: "Chicken breast", Quantity: "1", Unit: "lb"}},
	}, adapter.Usage{PromptTokens: 60, CompletionTokens: 90}, nil
}

func (m *MockMealGenerator) RecipeDetails(ctx context.Context, req model.RecipeRequest) (*model.Recipe, adapter.Usage, error) {
	m.Calls++
	m.LastRecipe = req
	if m.RecipeFunc != nil {
		return m.RecipeFunc(ctx, req)
	}
	return &model.Recipe{
		Name:        req.MealName,
		Servings:    2,
		Calories:    450,
		Ingredients: []model.RecipeIngredient{{Item: "Chicken breast", Amount: "8", Unit: "oz"}},
	}, adapter.Usage{PromptTokens: 70, CompletionTokens: 120}, nil
}

// =============================
// Repositories
// =============================

// ---- Mock ProfileRepository ----

type MockProfileRepo struct {
	mu    sync.Mutex
	store map[string]*model.Profile

	FindErr   error
	UpsertErr error

	UpsertSubCalls int
	LastPatch      repository.SubscriptionPatch
	DeactivateLog  []string // "userID:clearTier" per call
}

var _ repository.ProfileRepository = (*MockProfileRepo)(nil)

func NewMockProfileRepo() *MockProfileRepo {
	return &MockProfileRepo{store: make(map[string]*model.Profile)}
}

func (m *MockProfileRepo) Put(p *model.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.UserID] = &cp
}

func (m *MockProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProfileRepo) UpsertSubscription(ctx context.Context, userID, email string, patch repository.SubscriptionPatch) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertSubCalls++
	m.LastPatch = patch
	p, ok := m.store[userID]
	if !ok {
		p = &model.Profile{UserID: userID, Email: email, Preferences: model.DefaultPreferences(), CreatedAt: time.Now()}
		m.store[userID] = p
	}
	if email != "" {
		p.Email = email
	}
	p.SubscriptionActive = patch.Active
	p.SubscriptionTier = patch.Tier
	p.SubscriptionStartDate = patch.StartDate
	p.SubscriptionEndDate = patch.EndDate
	p.PaymentReferenceID = patch.ReferenceID
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockProfileRepo) UpsertPreferences(ctx context.Context, userID, email string, prefs model.Preferences) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[userID]
	if !ok {
		p = &model.Profile{UserID: userID, Email: email, CreatedAt: time.Now()}
		m.store[userID] = p
	}
	p.Preferences = prefs
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockProfileRepo) Deactivate(ctx context.Context, userID string, clearTier bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	flag := ":keep"
	if clearTier {
		flag = ":clear"
	}
	m.DeactivateLog = append(m.DeactivateLog, userID+flag)
	p, ok := m.store[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.SubscriptionActive = false
	if clearTier {
		p.SubscriptionTier = nil
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockProfileRepo) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.store {
		if p.SubscriptionActive && p.SubscriptionEndDate != nil && p.SubscriptionEndDate.Before(now) {
			p.SubscriptionActive = false
			n++
		}
	}
	return n, nil
}

func (m *MockProfileRepo) CountProfiles(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

func (m *MockProfileRepo) CountActiveByTier(ctx context.Context) (map[model.PlanTier]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.PlanTier]int)
	for _, p := range m.store {
		if p.SubscriptionActive && p.SubscriptionTier != nil {
			out[*p.SubscriptionTier]++
		}
	}
	return out, nil
}

// ---- Mock MealPlanRepository ----

type MockMealPlanRepo struct {
	mu      sync.Mutex
	store   map[string]*model.MealPlan
	SaveErr error
}

var _ repository.MealPlanRepository = (*MockMealPlanRepo)(nil)

func NewMockMealPlanRepo() *MockMealPlanRepo {
	return &MockMealPlanRepo{store: make(map[string]*model.MealPlan)}
}

func (m *MockMealPlanRepo) Save(ctx context.Context, plan *model.MealPlan) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.store[plan.ID] = &cp
	return nil
}

func (m *MockMealPlanRepo) FindByID(ctx context.Context, id string) (*model.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockMealPlanRepo) ListByUser(ctx context.Context, userID string) ([]*model.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MealPlan
	for _, p := range m.store {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockMealPlanRepo) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockMealPlanRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.store {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ---- Mock FavoriteRepository ----

type MockFavoriteRepo struct {
	mu    sync.Mutex
	store map[string]*model.Favorite
}

var _ repository.FavoriteRepository = (*MockFavoriteRepo)(nil)

func NewMockFavoriteRepo() *MockFavoriteRepo {
	return &MockFavoriteRepo{store: make(map[string]*model.Favorite)}
}

func (m *MockFavoriteRepo) Save(ctx context.Context, fav *model.Favorite) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.store {
		if f.UserID == fav.UserID && f.MealPlanID == fav.MealPlanID &&
			f.MealDay == fav.MealDay && f.MealType == fav.MealType {
			return f.ID, nil
		}
	}
	cp := *fav
	m.store[fav.ID] = &cp
	return fav.ID, nil
}

func (m *MockFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]*model.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Favorite
	for _, f := range m.store {
		if f.UserID == userID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockFavoriteRepo) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.store[id]
	if !ok || f.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockFavoriteRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, f := range m.store {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ---- Mock RateLimiter / PlanCache ----

type MockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Calls     int
	LastKey   string
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.Calls++
	m.LastKey = key
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key, limit, window)
	}
	return true, nil
}

type MockPlanCache struct {
	mu    sync.Mutex
	plans map[string]model.PlanData
}

func NewMockPlanCache() *MockPlanCache {
	return &MockPlanCache{plans: make(map[string]model.PlanData)}
}

func (m *MockPlanCache) Store(ctx context.Context, userID string, plan model.PlanData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[userID] = plan
	return nil
}

func (m *MockPlanCache) Get(ctx context.Context, userID string) (model.PlanData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plans[userID], nil
}
