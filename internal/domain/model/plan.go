package model

import "time"

type PlanTier string

const (
	PlanTierWeek  PlanTier = "week"
	PlanTierMonth PlanTier = "month"
	PlanTierYear  PlanTier = "year"
)

func (t PlanTier) Valid() bool {
	switch t {
	case PlanTierWeek, PlanTierMonth, PlanTierYear:
		return true
	}
	return false
}

// Plan is a purchasable billing interval with a fixed price in PHP.
type Plan struct {
	Tier        PlanTier `json:"tier"`
	Name        string   `json:"name"`
	AmountPHP   int64    `json:"amount"`
	Currency    string   `json:"currency"`
	IsPopular   bool     `json:"isPopular,omitempty"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// AmountCentavos converts the plan price to the smallest currency unit,
// as required by the gateway.
func (p Plan) AmountCentavos() int64 { return p.AmountPHP * 100 }

// TermEnd computes when a paid term anchored at `from` lapses: a week plan
// adds seven days, month and year plans add one calendar month or year.
// Unrecognized tiers fall back to the month rule.
func (t PlanTier) TermEnd(from time.Time) time.Time {
	switch t {
	case PlanTierWeek:
		return from.AddDate(0, 0, 7)
	case PlanTierYear:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// AvailablePlans is the static catalog. Prices are charged in PHP through
// the gateway; centavo conversion happens at checkout time.
var AvailablePlans = []Plan{
	{
		Tier:        PlanTierWeek,
		Name:        "Weekly Plan",
		AmountPHP:   49,
		Currency:    "PHP",
		Description: "Great if you want to try the service before committing longer.",
		Features:    []string{"Unlimited AI meal plans", "AI Nutrition Insights", "Cancel Anytime"},
	},
	{
		Tier:        PlanTierMonth,
		Name:        "Monthly Plan",
		AmountPHP:   149,
		Currency:    "PHP",
		IsPopular:   true,
		Description: "Perfect for ongoing, month-to-month meal planning and features.",
		Features:    []string{"Unlimited AI meal plans", "Priority AI support", "Cancel Anytime"},
	},
	{
		Tier:        PlanTierYear,
		Name:        "Yearly Plan",
		AmountPHP:   999,
		Currency:    "PHP",
		Description: "Best value for those committed to improving their diet long-term",
		Features:    []string{"Unlimited AI meal plans", "All premium features", "Cancel Anytime"},
	},
}

// PlanByTier looks up a catalog entry.
func PlanByTier(tier PlanTier) (Plan, bool) {
	for _, p := range AvailablePlans {
		if p.Tier == tier {
			return p, true
		}
	}
	return Plan{}, false
}
