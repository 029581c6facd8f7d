//go:build !integration

package web_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/infra/web"
	"mealplan-ai-subscription/internal/usecase"
)

type serverDeps struct {
	billing  *mockBillingUC
	webhooks *mockWebhookUC
	prefs    *mockPreferenceUC
	plans    *mockMealPlanUC
	stats    *mockStatsUC
	auth     *web.AuthManager
}

func newServerDeps() *serverDeps {
	return &serverDeps{
		billing:  &mockBillingUC{},
		webhooks: &mockWebhookUC{},
		prefs:    &mockPreferenceUC{},
		plans:    &mockMealPlanUC{},
		stats:    &mockStatsUC{},
		auth:     web.NewAuthManager("test-secret", false, "", time.Hour),
	}
}

func (d *serverDeps) handler(webhookSecret string) http.Handler {
	return d.handlerWithAdminKey(webhookSecret, "")
}

func (d *serverDeps) handlerWithAdminKey(webhookSecret, adminKey string) http.Handler {
	srv := web.NewServer(d.billing, d.webhooks, d.prefs, d.plans, d.stats, d.auth, webhookSecret, adminKey, newTestLogger())
	return srv.Routes()
}

// mintToken issues a session token the same way a login would.
func mintToken(t *testing.T, auth *web.AuthManager, userID, email string) string {
	t.Helper()
	rec := httptest.NewRecorder()
	tok, err := auth.Mint(rec, userID, email)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return tok
}

func authRequest(t *testing.T, auth *web.AuthManager, method, target string, body string) *http.Request {
	t.Helper()
	var rdr *bytes.Reader
	if body == "" {
		rdr = bytes.NewReader(nil)
	} else {
		rdr = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, auth, "user-1", "u1@example.com"))
	return req
}

func TestServer_Health(t *testing.T) {
	h := newServerDeps().handler("")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}

func TestServer_AuthGate(t *testing.T) {
	deps := newServerDeps()
	h := deps.handler("")

	t.Run("rejects requests without a token", func(t *testing.T) {
		for _, target := range []string{"/api/v1/checkout", "/api/v1/preferences", "/api/v1/stats"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			if rec.Code != http.StatusUnauthorized && rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("%s: want 401, got %d", target, rec.Code)
			}
		}
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := web.NewAuthManager("other-secret", false, "", time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, other, "user-1", ""))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("want 401, got %d", rec.Code)
		}
	})

	t.Run("accepts a valid bearer token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodGet, "/api/v1/stats", ""))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
	})
}

func TestServer_AdminGate(t *testing.T) {
	t.Run("disabled when no key is configured", func(t *testing.T) {
		h := newServerDeps().handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("want 403, got %d", rec.Code)
		}
	})

	t.Run("rejects a missing or malformed header", func(t *testing.T) {
		h := newServerDeps().handlerWithAdminKey("", "ops-key")
		for _, header := range []string{"", "ops-key", "Basic ops-key"} {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("header %q: want 401, got %d", header, rec.Code)
			}
		}
	})

	t.Run("rejects the wrong key", func(t *testing.T) {
		h := newServerDeps().handlerWithAdminKey("", "ops-key")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer not-the-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("want 403, got %d", rec.Code)
		}
	})

	t.Run("serves platform totals with the right key", func(t *testing.T) {
		h := newServerDeps().handlerWithAdminKey("", "ops-key")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer ops-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		var got usecase.PlatformStats
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
	})
}

func TestServer_Checkout(t *testing.T) {
	t.Run("returns the redirect url", func(t *testing.T) {
		deps := newServerDeps()
		var gotUser, gotEmail string
		var gotTier model.PlanTier
		deps.billing.InitiateCheckoutFunc = func(ctx context.Context, userID, email string, tier model.PlanTier) (string, error) {
			gotUser, gotEmail, gotTier = userID, email, tier
			return "https://checkout.example/cs_1", nil
		}
		h := deps.handler("")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/checkout", `{"planType":"month"}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		var body struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.URL != "https://checkout.example/cs_1" {
			t.Errorf("url = %q", body.URL)
		}
		if gotUser != "user-1" || gotEmail != "u1@example.com" || gotTier != model.PlanTierMonth {
			t.Errorf("identity from session wrong: %s %s %s", gotUser, gotEmail, gotTier)
		}
	})

	t.Run("maps an invalid plan to 400", func(t *testing.T) {
		deps := newServerDeps()
		deps.billing.InitiateCheckoutFunc = func(ctx context.Context, userID, email string, tier model.PlanTier) (string, error) {
			return "", domain.ErrInvalidPlan
		}
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/checkout", `{"planType":"lifetime"}`))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})

	t.Run("maps a gateway failure to 500", func(t *testing.T) {
		deps := newServerDeps()
		deps.billing.InitiateCheckoutFunc = func(ctx context.Context, userID, email string, tier model.PlanTier) (string, error) {
			return "", &domain.GatewayError{StatusCode: 500, Detail: "upstream down"}
		}
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/checkout", `{"planType":"month"}`))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("want 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "upstream down") {
			t.Error("remote detail must not leak to the client")
		}
	})
}

func TestServer_VerifySession(t *testing.T) {
	t.Run("confirms a paid session", func(t *testing.T) {
		deps := newServerDeps()
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verify-session",
			strings.NewReader(`{"sessionId":"cs_1"}`)))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"success":true`) {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("rejects an unpaid session with 400", func(t *testing.T) {
		deps := newServerDeps()
		deps.billing.VerifySessionFunc = func(ctx context.Context, sessionID string) error {
			return domain.ErrPaymentNotCompleted
		}
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verify-session",
			strings.NewReader(`{"sessionId":"cs_1"}`)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})

	t.Run("requires a session id", func(t *testing.T) {
		h := newServerDeps().handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verify-session", strings.NewReader(`{}`)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})
}

func signBody(secret string, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, body)
	return fmt.Sprintf("t=%d,te=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestServer_Webhook(t *testing.T) {
	const secret = "whsk_test_secret"
	payload := []byte(`{"data":{"id":"evt_1","attributes":{"type":"checkout_session.payment.paid","data":{"id":"cs_1","attributes":{"metadata":{"userId":"user-1","planType":"month"}}}}}}`)

	post := func(h http.Handler, body []byte, sig string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", bytes.NewReader(body))
		if sig != "" {
			req.Header.Set("paymongo-signature", sig)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("accepts a correctly signed delivery", func(t *testing.T) {
		deps := newServerDeps()
		h := deps.handler(secret)
		rec := post(h, payload, signBody(secret, time.Now().Unix(), payload))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"received":true`) {
			t.Errorf("body = %s", rec.Body.String())
		}
		if len(deps.webhooks.Processed) != 1 {
			t.Fatalf("processed = %d events, want 1", len(deps.webhooks.Processed))
		}
		if got := deps.webhooks.Processed[0].EventType(); got != usecase.EventCheckoutSessionPaid {
			t.Errorf("event type = %q", got)
		}
	})

	t.Run("rejects a tampered body", func(t *testing.T) {
		deps := newServerDeps()
		h := deps.handler(secret)
		sig := signBody(secret, time.Now().Unix(), payload)
		tampered := bytes.Replace(payload, []byte("month"), []byte("year"), 1)
		rec := post(h, tampered, sig)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
		if len(deps.webhooks.Processed) != 0 {
			t.Error("a rejected delivery must not be dispatched")
		}
	})

	t.Run("rejects a missing signature", func(t *testing.T) {
		deps := newServerDeps()
		h := deps.handler(secret)
		if rec := post(h, payload, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})

	t.Run("skips verification when no secret is configured", func(t *testing.T) {
		deps := newServerDeps()
		h := deps.handler("")
		if rec := post(h, payload, ""); rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", rec.Code)
		}
	})

	t.Run("rejects malformed JSON after a valid signature", func(t *testing.T) {
		deps := newServerDeps()
		h := deps.handler(secret)
		bad := []byte(`{"data":`)
		rec := post(h, bad, signBody(secret, time.Now().Unix(), bad))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})

	t.Run("maps a handler failure to 500 for redelivery", func(t *testing.T) {
		deps := newServerDeps()
		deps.webhooks.ProcessEventFunc = func(ctx context.Context, ev *usecase.GatewayEvent) (string, error) {
			return "", fmt.Errorf("db down")
		}
		h := deps.handler(secret)
		rec := post(h, payload, signBody(secret, time.Now().Unix(), payload))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("want 500, got %d", rec.Code)
		}
	})
}

func TestServer_MealPlans(t *testing.T) {
	t.Run("generate returns the plan body", func(t *testing.T) {
		deps := newServerDeps()
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/mealplans/generate", `{"dietType":"keto"}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		var body struct {
			MealPlan model.PlanData `json:"mealPlan"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.MealPlan["day1"]["breakfast"] == "" {
			t.Errorf("plan missing: %+v", body.MealPlan)
		}
	})

	t.Run("generate without subscription is 400", func(t *testing.T) {
		deps := newServerDeps()
		deps.plans.GenerateFunc = func(ctx context.Context, userID string, prefs model.Preferences) (model.PlanData, error) {
			return nil, domain.ErrNoActiveSubscription
		}
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/mealplans/generate", `{}`))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})

	t.Run("generate over the limit is 429", func(t *testing.T) {
		deps := newServerDeps()
		deps.plans.GenerateFunc = func(ctx context.Context, userID string, prefs model.Preferences) (model.PlanData, error) {
			return nil, domain.ErrRateLimited
		}
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/mealplans/generate", `{}`))
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("want 429, got %d", rec.Code)
		}
	})

	t.Run("get by id passes the URL param through", func(t *testing.T) {
		deps := newServerDeps()
		var gotID string
		deps.plans.GetFunc = func(ctx context.Context, userID, id string) (*model.MealPlan, error) {
			gotID = id
			return model.NewMealPlan(id, userID, "Plan", model.Preferences{}, model.PlanData{"day1": {"breakfast": "Eggs"}})
		}
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodGet, "/api/v1/mealplans/01HXYZ", ""))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", rec.Code)
		}
		if gotID != "01HXYZ" {
			t.Errorf("id = %q", gotID)
		}
	})

	t.Run("get of a foreign plan is 404", func(t *testing.T) {
		deps := newServerDeps()
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodGet, "/api/v1/mealplans/unknown", ""))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("want 404, got %d", rec.Code)
		}
	})
}

func TestServer_Plans(t *testing.T) {
	h := newServerDeps().handler("")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var body struct {
		Plans []model.Plan `json:"plans"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Plans) != 3 {
		t.Fatalf("plans = %d, want 3", len(body.Plans))
	}
}

func TestServer_MealHelpers(t *testing.T) {
	t.Run("swap returns alternatives for the session user", func(t *testing.T) {
		deps := newServerDeps()
		var gotUser string
		var gotReq model.SwapRequest
		deps.plans.SwapFunc = func(ctx context.Context, userID string, req model.SwapRequest) ([]model.MealAlternative, error) {
			gotUser, gotReq = userID, req
			return []model.MealAlternative{{Name: "Tofu scramble", Calories: 340, QuickDescription: "Quick savory skillet"}}, nil
		}
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/swap-meal",
			`{"currentMeal":"Oatmeal","mealType":"Breakfast","dietType":"vegan"}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		if gotUser != "user-1" || gotReq.CurrentMeal != "Oatmeal" || gotReq.DietType != "vegan" {
			t.Errorf("user=%q req=%+v", gotUser, gotReq)
		}
		var body struct {
			Alternatives []model.MealAlternative `json:"alternatives"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.Alternatives) != 1 || body.Alternatives[0].Calories != 340 {
			t.Errorf("alternatives = %+v", body.Alternatives)
		}
	})

	t.Run("swap without a current meal is 400", func(t *testing.T) {
		deps := newServerDeps()
		deps.plans.SwapFunc = func(ctx context.Context, userID string, req model.SwapRequest) ([]model.MealAlternative, error) {
			return nil, domain.ErrInvalidArgument
		}
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/swap-meal", `{"mealType":"Lunch"}`))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})

	t.Run("shopping list wraps the generated categories", func(t *testing.T) {
		deps := newServerDeps()
		var gotPlan model.PlanData
		deps.plans.ShoppingFunc = func(ctx context.Context, userID string, plan model.PlanData) (model.ShoppingList, error) {
			gotPlan = plan
			return model.ShoppingList{"Proteins": {{Name: "Chicken breast", Quantity: "1", Unit: "lb"}}}, nil
		}
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/shopping-list",
			`{"mealPlan":{"Monday":{"Breakfast":"Oatmeal - 350 calories"}}}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		if gotPlan["Monday"]["Breakfast"] != "Oatmeal - 350 calories" {
			t.Errorf("plan did not reach the usecase: %v", gotPlan)
		}
		var body struct {
			ShoppingList model.ShoppingList `json:"shoppingList"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.ShoppingList["Proteins"]) != 1 {
			t.Errorf("shopping list = %+v", body.ShoppingList)
		}
	})

	t.Run("recipe details for a named meal", func(t *testing.T) {
		deps := newServerDeps()
		h := deps.handler("")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, authRequest(t, deps.auth, http.MethodPost, "/api/v1/recipe-details",
			`{"mealName":"Chicken adobo","mealType":"Dinner"}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		var body struct {
			Recipe model.Recipe `json:"recipe"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Recipe.Name != "Chicken adobo" {
			t.Errorf("recipe = %+v", body.Recipe)
		}
	})

	t.Run("helpers require a session", func(t *testing.T) {
		h := newServerDeps().handler("")
		for _, target := range []string{"/api/v1/swap-meal", "/api/v1/shopping-list", "/api/v1/recipe-details"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{}`)))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s: want 401, got %d", target, rec.Code)
			}
		}
	})
}
