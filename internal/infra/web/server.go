package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/infra/logging"
	"mealplan-ai-subscription/internal/usecase"
)

type Server struct {
	billingUC     usecase.BillingUseCase
	webhookUC     usecase.WebhookUseCase
	prefUC        usecase.PreferenceUseCase
	mealPlanUC    usecase.MealPlanUseCase
	statsUC       usecase.StatsUseCase
	auth          *AuthManager
	webhookSecret string
	adminAPIKey   string
	log           *zerolog.Logger
}

func NewServer(
	billingUC usecase.BillingUseCase,
	webhookUC usecase.WebhookUseCase,
	prefUC usecase.PreferenceUseCase,
	mealPlanUC usecase.MealPlanUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	webhookSecret, adminAPIKey string,
	logger *zerolog.Logger,
) *Server {
	srvLog := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		billingUC:     billingUC,
		webhookUC:     webhookUC,
		prefUC:        prefUC,
		mealPlanUC:    mealPlanUC,
		statsUC:       statsUC,
		auth:          auth,
		webhookSecret: webhookSecret,
		adminAPIKey:   adminAPIKey,
		log:           &srvLog,
	}
}

// Routes builds the full router, middleware included.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(traceMiddleware)
	r.Use(recoverMiddleware(s.log))
	r.Use(requestLogMiddleware(s.log))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// The webhook is authenticated by its HMAC signature, not a session.
		r.Post("/webhook", s.handleWebhook)
		// Session verification happens right after the payment redirect,
		// possibly before the client has a session again.
		r.Post("/verify-session", s.handleVerifySession)
		r.Get("/plans", s.handlePlansList)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/checkout", s.handleCheckout)
			r.Post("/checkout/change-plan", s.handlePlanChange)
			r.Post("/unsubscribe", s.handleUnsubscribe)

			r.Get("/preferences", s.handlePreferencesGet)
			r.Post("/preferences", s.handlePreferencesUpdate)

			r.Post("/mealplans/generate", s.handleGenerate)
			r.Get("/mealplans/last", s.handleLastGenerated)
			r.Get("/mealplans", s.handleMealPlansList)
			r.Post("/mealplans", s.handleMealPlanSave)
			r.Get("/mealplans/{id}", s.handleMealPlanGet)
			r.Delete("/mealplans/{id}", s.handleMealPlanDelete)

			r.Post("/swap-meal", s.handleSwapMeal)
			r.Post("/shopping-list", s.handleShoppingList)
			r.Post("/recipe-details", s.handleRecipeDetails)

			r.Get("/favorites", s.handleFavoritesList)
			r.Post("/favorites", s.handleFavoriteAdd)
			r.Delete("/favorites/{id}", s.handleFavoriteRemove)

			r.Get("/stats", s.handleUserStats)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdminKey)
			r.Get("/admin/stats", s.handlePlatformStats)
		})
	})

	return r
}

// requireAdminKey provides bearer-key authentication for the operator API.
func (s *Server) requireAdminKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminAPIKey == "" {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		hdr := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(hdr) <= len(prefix) || !strings.EqualFold(hdr[:len(prefix)], prefix) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if hdr[len(prefix):] != s.adminAPIKey {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without a valid session token and records
// the caller's identity on the context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := withSession(r.Context(), claims)
		ctx = logging.WithUserID(ctx, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ===== JSON helpers =====

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the shared error vocabulary onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrInvalidPlan):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPaymentNotCompleted), errors.Is(err, domain.ErrMissingUserID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoActiveSubscription):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProfileNotFound), errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many generations, try again later")
	default:
		var ge *domain.GatewayError
		if errors.As(err, &ge) {
			// remote detail goes to the logs, not the client
			logging.With(r.Context(), s.log).Error().Err(err).Msg("payment gateway error")
			writeError(w, http.StatusInternalServerError, "Payment provider error")
			return
		}
		logging.With(r.Context(), s.log).Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
