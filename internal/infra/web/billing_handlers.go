package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/infra/logging"
	"mealplan-ai-subscription/internal/infra/metrics"
)

type checkoutRequest struct {
	PlanType string `json:"planType"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess := sessionFromContext(r.Context())

	url, err := s.billingUC.InitiateCheckout(r.Context(), sess.Subject, sess.Email, model.PlanTier(req.PlanType))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type planChangeRequest struct {
	NewPlan string `json:"newPlan"`
}

func (s *Server) handlePlanChange(w http.ResponseWriter, r *http.Request) {
	var req planChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	sess := sessionFromContext(r.Context())

	url, err := s.billingUC.InitiatePlanChange(r.Context(), sess.Subject, model.PlanTier(req.NewPlan))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

type verifySessionRequest struct {
	SessionID string `json:"sessionId"`
}

func (s *Server) handleVerifySession(w http.ResponseWriter, r *http.Request) {
	var req verifySessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	start := time.Now()
	err := s.billingUC.VerifySession(r.Context(), req.SessionID)
	if err != nil {
		metrics.IncSessionVerify("failed", verifyFailReason(err))
		metrics.ObserveSessionVerify("failed", time.Since(start).Seconds())
		s.writeDomainError(w, r, err)
		return
	}
	metrics.IncSessionVerify("ok", "")
	metrics.ObserveSessionVerify("ok", time.Since(start).Seconds())

	logging.With(r.Context(), s.log).Info().
		Str("session_id", req.SessionID).
		Msg("session verified")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func verifyFailReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrPaymentNotCompleted):
		return "not_paid"
	case errors.Is(err, domain.ErrMissingUserID):
		return "missing_user_id"
	default:
		return "gateway"
	}
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if err := s.billingUC.Unsubscribe(r.Context(), sess.Subject); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Subscription cancelled",
	})
}

func (s *Server) handlePlansList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"plans": model.AvailablePlans})
}
