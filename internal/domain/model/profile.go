package model

import (
	"time"

	"mealplan-ai-subscription/internal/domain"
)

// Profile is the single per-user record: subscription state plus the meal
// preferences used to build generation prompts. Created lazily on the first
// successful payment confirmation or the first preference save.
type Profile struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`

	SubscriptionActive    bool       `json:"subscriptionActive"`
	SubscriptionTier      *PlanTier  `json:"subscriptionTier,omitempty"`
	SubscriptionStartDate *time.Time `json:"subscriptionStartDate,omitempty"`
	SubscriptionEndDate   *time.Time `json:"subscriptionEndDate,omitempty"`
	// PaymentReferenceID holds the checkout session id that last activated
	// the subscription, for idempotency checks and audit.
	PaymentReferenceID *string `json:"paymentReferenceId,omitempty"`

	Preferences Preferences `json:"preferences"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Preferences are the dietary defaults applied to meal plan generation.
type Preferences struct {
	DietType      string `json:"dietType"`
	DailyCalories int    `json:"dailyCalories"`
	Allergies     string `json:"allergies"`
	Cuisine       string `json:"cuisine"`
	IncludeSnacks bool   `json:"includeSnacks"`
	PlanDays      int    `json:"planDays"`
}

// DefaultPreferences returns the values served when no profile exists yet.
func DefaultPreferences() Preferences {
	return Preferences{
		DietType:      "balanced",
		DailyCalories: 2000,
		Allergies:     "",
		Cuisine:       "",
		IncludeSnacks: true,
		PlanDays:      7,
	}
}

// Normalize fills zero-valued preference fields with defaults.
func (p Preferences) Normalize() Preferences {
	def := DefaultPreferences()
	if p.DietType == "" {
		p.DietType = def.DietType
	}
	if p.DailyCalories <= 0 {
		p.DailyCalories = def.DailyCalories
	}
	if p.PlanDays <= 0 {
		p.PlanDays = def.PlanDays
	}
	return p
}

// NewProfile constructs an empty profile for a user with default preferences.
func NewProfile(userID, email string) (*Profile, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Profile{
		UserID:      userID,
		Email:       email,
		Preferences: DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate checks the profile invariants: an active subscription must carry
// a recognized tier, and the paid term must end after it starts.
func (p *Profile) Validate() error {
	if p.UserID == "" {
		return domain.ErrInvalidArgument
	}
	if p.SubscriptionActive && (p.SubscriptionTier == nil || !p.SubscriptionTier.Valid()) {
		return domain.ErrInvalidArgument
	}
	if p.SubscriptionStartDate != nil && p.SubscriptionEndDate != nil &&
		!p.SubscriptionEndDate.After(*p.SubscriptionStartDate) {
		return domain.ErrInvalidArgument
	}
	return nil
}
