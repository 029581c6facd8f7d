package repository

import (
	"context"
	"time"

	"mealplan-ai-subscription/internal/domain/model"
)

// SubscriptionPatch is the overwrite applied by the convergent activation
// and deactivation paths. Nil pointer fields are written as NULL, not
// skipped: both payment paths compute the full target state, so a repeated
// or racing apply converges on the same row (last writer wins).
type SubscriptionPatch struct {
	Active      bool
	Tier        *model.PlanTier
	StartDate   *time.Time
	EndDate     *time.Time
	ReferenceID *string
}

// ProfileRepository stores subscriber profiles keyed by the stable external
// user id. All writes are single-row create-or-update operations; the
// storage layer guarantees their atomicity.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	// UpsertSubscription creates the profile if absent (with the given
	// email, which may be empty) and overwrites its subscription fields.
	UpsertSubscription(ctx context.Context, userID, email string, patch SubscriptionPatch) error
	// UpsertPreferences creates the profile if absent and overwrites its
	// preference fields, leaving subscription state untouched.
	UpsertPreferences(ctx context.Context, userID, email string, prefs model.Preferences) error
	// Deactivate sets subscription_active=false. When clearTier is set the
	// tier is nulled as well (the unsubscribe path); the payment-failed
	// path leaves it in place.
	Deactivate(ctx context.Context, userID string, clearTier bool) error
	// DeactivateExpired flips profiles whose paid term lapsed before `now`
	// and returns how many rows changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int, error)
	CountProfiles(ctx context.Context) (int, error)
	CountActiveByTier(ctx context.Context) (map[model.PlanTier]int, error)
}
