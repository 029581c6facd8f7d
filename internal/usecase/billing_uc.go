// File: internal/usecase/billing_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/adapter"
	"mealplan-ai-subscription/internal/domain/ports/repository"
	"mealplan-ai-subscription/internal/infra/metrics"
)

// Compile-time check
var _ BillingUseCase = (*billingUC)(nil)

// ErrCheckoutFailed is the generic error surfaced to callers when the
// gateway rejects a session creation; the remote detail stays in the logs.
var ErrCheckoutFailed = errors.New("failed to create checkout session")

// paymentMethodTypes is the allow-list sent with every checkout session.
var paymentMethodTypes = []string{"gcash", "grab_pay", "paymaya", "card"}

type BillingUseCase interface {
	// InitiateCheckout opens a hosted checkout session for the given plan
	// and returns the redirect URL.
	InitiateCheckout(ctx context.Context, userID, email string, tier model.PlanTier) (string, error)
	// InitiatePlanChange is the checkout variant for an existing
	// subscriber switching tiers; the swap itself only happens when the
	// new session's payment confirms.
	InitiatePlanChange(ctx context.Context, userID string, newTier model.PlanTier) (string, error)
	// VerifySession re-fetches a session after the client returns from the
	// payment page and activates the subscription if it shows paid
	// evidence.
	VerifySession(ctx context.Context, sessionID string) error
	// ActivateSubscription is the convergent activation write shared by
	// the client verification path and the webhook path. It is safe to
	// apply repeatedly: both paths compute the same target state.
	ActivateSubscription(ctx context.Context, meta model.CheckoutMetadata, sessionID, path string) error
	// Unsubscribe deactivates the caller's subscription and clears the tier.
	Unsubscribe(ctx context.Context, userID string) error
}

type billingUC struct {
	profiles   repository.ProfileRepository
	gateway    adapter.PaymentGateway
	appBaseURL string
	log        *zerolog.Logger
}

func NewBillingUseCase(profiles repository.ProfileRepository, gateway adapter.PaymentGateway, appBaseURL string, logger *zerolog.Logger) *billingUC {
	l := logger.With().Str("component", "BillingUC").Logger()
	return &billingUC{profiles: profiles, gateway: gateway, appBaseURL: appBaseURL, log: &l}
}

func (u *billingUC) InitiateCheckout(ctx context.Context, userID, email string, tier model.PlanTier) (string, error) {
	if userID == "" || email == "" {
		return "", domain.ErrInvalidArgument
	}
	plan, ok := model.PlanByTier(tier)
	if !ok {
		return "", domain.ErrInvalidPlan
	}

	sess, err := u.gateway.CreateCheckoutSession(ctx, adapter.CheckoutSpec{
		BillingEmail: email,
		LineItems: []adapter.LineItem{{
			Name:        plan.Name,
			Quantity:    1,
			Amount:      plan.AmountCentavos(),
			Currency:    plan.Currency,
			Description: plan.Description,
		}},
		PaymentMethodTypes: paymentMethodTypes,
		SuccessURL:         u.appBaseURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:          u.appBaseURL + "/subscribe",
		Description:        fmt.Sprintf("%s subscription", plan.Name),
		Metadata:           model.CheckoutMetadata{UserID: userID, PlanType: tier}.ToMap(),
	})
	if err != nil {
		u.log.Error().Err(err).Str("tier", string(tier)).Msg("checkout session creation failed")
		metrics.IncCheckoutSession(string(tier), "failed")
		return "", ErrCheckoutFailed
	}
	metrics.IncCheckoutSession(string(tier), "created")
	return sess.CheckoutURL, nil
}

func (u *billingUC) InitiatePlanChange(ctx context.Context, userID string, newTier model.PlanTier) (string, error) {
	if userID == "" {
		return "", domain.ErrInvalidArgument
	}
	plan, ok := model.PlanByTier(newTier)
	if !ok {
		return "", domain.ErrInvalidPlan
	}
	profile, err := u.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	sess, err := u.gateway.CreateCheckoutSession(ctx, adapter.CheckoutSpec{
		BillingEmail: profile.Email,
		LineItems: []adapter.LineItem{{
			Name:        plan.Name + " (Plan Change)",
			Quantity:    1,
			Amount:      plan.AmountCentavos(),
			Currency:    plan.Currency,
			Description: "Upgrade to " + plan.Name,
		}},
		PaymentMethodTypes: paymentMethodTypes,
		SuccessURL:         u.appBaseURL + "/success?session_id={CHECKOUT_SESSION_ID}&plan_change=true",
		CancelURL:          u.appBaseURL + "/profile",
		Description:        fmt.Sprintf("%s - Plan Change", plan.Name),
		Metadata:           model.CheckoutMetadata{UserID: userID, PlanType: newTier, IsPlanChange: true}.ToMap(),
	})
	if err != nil {
		u.log.Error().Err(err).Str("tier", string(newTier)).Msg("plan change session creation failed")
		metrics.IncCheckoutSession(string(newTier), "failed")
		return "", ErrCheckoutFailed
	}
	metrics.IncCheckoutSession(string(newTier), "created")
	return sess.CheckoutURL, nil
}

func (u *billingUC) VerifySession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrInvalidArgument
	}
	sess, err := u.gateway.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !sess.HasPaidEvidence() {
		return domain.ErrPaymentNotCompleted
	}
	meta := model.CheckoutMetadataFromMap(sess.EffectiveMetadata())
	if meta.UserID == "" {
		return domain.ErrMissingUserID
	}
	return u.ActivateSubscription(ctx, meta, sess.ID, "verify")
}

// ActivateSubscription computes the full target subscription state from the
// session metadata and overwrites the profile with it. The end date is
// anchored at the confirmation instant; an unrecognized tier falls back to
// the month rule for the term but is stored as-is only when recognized.
func (u *billingUC) ActivateSubscription(ctx context.Context, meta model.CheckoutMetadata, sessionID, path string) error {
	if meta.UserID == "" {
		return domain.ErrMissingUserID
	}

	// best-known email: a prior record's address, else empty
	email := ""
	if existing, err := u.profiles.FindByUserID(ctx, meta.UserID); err == nil {
		email = existing.Email
	}

	now := time.Now()
	end := meta.PlanType.TermEnd(now)

	var tier *model.PlanTier
	if meta.PlanType.Valid() {
		t := meta.PlanType
		tier = &t
	}
	var ref *string
	if sessionID != "" {
		ref = &sessionID
	}

	patch := repository.SubscriptionPatch{
		Active:      true,
		Tier:        tier,
		StartDate:   &now,
		EndDate:     &end,
		ReferenceID: ref,
	}
	if err := u.profiles.UpsertSubscription(ctx, meta.UserID, email, patch); err != nil {
		return err
	}

	metrics.IncSubscriptionActivation(path, string(meta.PlanType))
	u.log.Info().
		Str("user_id", meta.UserID).
		Str("tier", string(meta.PlanType)).
		Str("session_id", sessionID).
		Str("path", path).
		Bool("plan_change", meta.IsPlanChange).
		Msg("subscription activated")
	return nil
}

func (u *billingUC) Unsubscribe(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidArgument
	}
	profile, err := u.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !profile.SubscriptionActive {
		return domain.ErrNoActiveSubscription
	}
	if err := u.profiles.Deactivate(ctx, userID, true); err != nil {
		return err
	}
	u.log.Info().Str("user_id", userID).Msg("subscription cancelled")
	return nil
}
