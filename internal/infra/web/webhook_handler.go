package web

import (
	"io"
	"net/http"

	"mealplan-ai-subscription/internal/infra/adapters/payment"
	"mealplan-ai-subscription/internal/infra/logging"
	"mealplan-ai-subscription/internal/infra/metrics"
	"mealplan-ai-subscription/internal/usecase"
)

const (
	signatureHeader = "paymongo-signature"
	maxWebhookBody  = 1 << 20 // 1 MiB
)

// handleWebhook is the asynchronous confirmation entry point. The order is
// fixed: read the raw bytes, verify the HMAC over exactly those bytes, and
// only then parse and dispatch. An empty configured secret (dev mode only,
// config validation forbids it otherwise) skips verification.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := logging.With(r.Context(), s.log)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		metrics.IncWebhookRejected("read_error")
		writeError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	if s.webhookSecret != "" {
		sig := r.Header.Get(signatureHeader)
		if !payment.VerifyWebhookSignature(body, sig, s.webhookSecret) {
			metrics.IncWebhookRejected("bad_signature")
			log.Warn().Str("remote", r.RemoteAddr).Msg("webhook signature rejected")
			writeError(w, http.StatusBadRequest, "Invalid signature")
			return
		}
	} else {
		log.Warn().Msg("webhook signature verification skipped: no secret configured")
	}

	ev, err := usecase.ParseWebhookEvent(body)
	if err != nil {
		metrics.IncWebhookRejected("bad_json")
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	outcome, err := s.webhookUC.ProcessEvent(r.Context(), ev)
	if err != nil {
		// 500 tells the gateway to redeliver
		log.Error().Err(err).Str("event_type", ev.EventType()).Msg("webhook handler failed")
		writeError(w, http.StatusInternalServerError, "Webhook processing failed")
		return
	}

	log.Info().
		Str("event_type", ev.EventType()).
		Str("outcome", outcome).
		Msg("webhook processed")
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
