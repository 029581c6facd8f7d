// File: internal/usecase/webhook_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/repository"
	"mealplan-ai-subscription/internal/infra/metrics"
)

// Gateway event types this system acts on.
const (
	EventCheckoutSessionPaid = "checkout_session.payment.paid"
	EventPaymentPaid         = "payment.paid"
	EventPaymentFailed       = "payment.failed"
)

// Outcomes reported per processed event.
const (
	OutcomeHandled   = "handled"
	OutcomeNoop      = "noop"
	OutcomeUnhandled = "unhandled"
)

// GatewayEvent is the webhook envelope: an event wrapping the affected
// resource (a checkout session or a payment), which in turn may nest a
// payment intent carrying the metadata bag.
type GatewayEvent struct {
	Data struct {
		ID         string `json:"id"`
		Type       string `json:"type"`
		Attributes struct {
			Type string        `json:"type"`
			Data EventResource `json:"data"`
		} `json:"attributes"`
	} `json:"data"`
}

type EventResource struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Status        string            `json:"status"`
		Metadata      map[string]string `json:"metadata"`
		PaymentIntent *struct {
			ID         string `json:"id"`
			Attributes struct {
				Status   string            `json:"status"`
				Metadata map[string]string `json:"metadata"`
			} `json:"attributes"`
		} `json:"payment_intent"`
		Payments []struct {
			ID         string `json:"id"`
			Attributes struct {
				Status string `json:"status"`
			} `json:"attributes"`
		} `json:"payments"`
	} `json:"attributes"`
}

// EventType returns the inner event type used for dispatch.
func (e *GatewayEvent) EventType() string { return e.Data.Attributes.Type }

// Metadata resolves the resource's metadata bag, falling back to the
// nested payment intent's when the top level is absent.
func (r *EventResource) Metadata() model.CheckoutMetadata {
	raw := r.Attributes.Metadata
	if len(raw) == 0 && r.Attributes.PaymentIntent != nil {
		raw = r.Attributes.PaymentIntent.Attributes.Metadata
	}
	return model.CheckoutMetadataFromMap(raw)
}

// ParseWebhookEvent decodes the raw body. Signature verification must
// already have happened on these exact bytes.
func ParseWebhookEvent(raw []byte) (*GatewayEvent, error) {
	var ev GatewayEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	return &ev, nil
}

var _ WebhookUseCase = (*webhookUC)(nil)

type WebhookUseCase interface {
	// ProcessEvent applies one event's state transition. The returned
	// outcome is one of handled/noop/unhandled; an error means the handler
	// itself failed and the delivery should be retried by the gateway.
	ProcessEvent(ctx context.Context, ev *GatewayEvent) (string, error)
}

type webhookUC struct {
	profiles repository.ProfileRepository
	billing  BillingUseCase
	log      *zerolog.Logger
}

func NewWebhookUseCase(profiles repository.ProfileRepository, billing BillingUseCase, logger *zerolog.Logger) *webhookUC {
	l := logger.With().Str("component", "WebhookUC").Logger()
	return &webhookUC{profiles: profiles, billing: billing, log: &l}
}

func (u *webhookUC) ProcessEvent(ctx context.Context, ev *GatewayEvent) (string, error) {
	eventType := ev.EventType()

	var outcome string
	var err error
	switch eventType {
	case EventCheckoutSessionPaid:
		outcome, err = u.handleCheckoutSessionPaid(ctx, ev)
	case EventPaymentPaid:
		// Informational: the checkout-session event or the client
		// verification path carries the confirmation.
		u.log.Debug().Str("event_id", ev.Data.ID).Msg("payment paid event received")
		outcome = OutcomeNoop
	case EventPaymentFailed:
		outcome, err = u.handlePaymentFailed(ctx, ev)
	default:
		u.log.Info().Str("event_type", eventType).Msg("unhandled event type")
		outcome = OutcomeUnhandled
	}

	if err != nil {
		metrics.IncWebhookEvent(eventType, "error")
		return "", err
	}
	metrics.IncWebhookEvent(eventType, outcome)
	return outcome, nil
}

func (u *webhookUC) handleCheckoutSessionPaid(ctx context.Context, ev *GatewayEvent) (string, error) {
	res := ev.Data.Attributes.Data
	meta := res.Metadata()
	if meta.UserID == "" {
		// The gateway may deliver events this system has nothing to do
		// with; acknowledging them stops pointless redelivery.
		u.log.Info().Str("session_id", res.ID).Msg("no user id in checkout session metadata")
		return OutcomeNoop, nil
	}
	if err := u.billing.ActivateSubscription(ctx, meta, res.ID, "webhook"); err != nil {
		return "", err
	}
	if plan, ok := model.PlanByTier(meta.PlanType); ok {
		metrics.AddPaymentRevenue(plan.Currency, plan.AmountCentavos())
	}
	return OutcomeHandled, nil
}

func (u *webhookUC) handlePaymentFailed(ctx context.Context, ev *GatewayEvent) (string, error) {
	res := ev.Data.Attributes.Data
	meta := model.CheckoutMetadataFromMap(res.Attributes.Metadata)
	if meta.UserID == "" {
		u.log.Info().Str("payment_id", res.ID).Msg("no user id in failed payment metadata")
		return OutcomeNoop, nil
	}
	// Deactivate only; the tier stays so the profile still shows what the
	// user had been on. No profile yet means nothing to deactivate.
	if err := u.profiles.Deactivate(ctx, meta.UserID, false); err != nil {
		u.log.Warn().Err(err).Str("user_id", meta.UserID).Msg("could not deactivate after failed payment")
		return OutcomeNoop, nil
	}
	u.log.Info().Str("user_id", meta.UserID).Msg("subscription deactivated after failed payment")
	return OutcomeHandled, nil
}
