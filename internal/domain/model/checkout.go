package model

// CheckoutMetadata is the fixed-shape record this system round-trips through
// the payment gateway so that an unauthenticated webhook can recover the
// buyer's identity. The gateway itself treats it as an opaque string map.
type CheckoutMetadata struct {
	UserID       string
	PlanType     PlanTier
	IsPlanChange bool
}

const (
	metaKeyUserID     = "userId"
	metaKeyPlanType   = "planType"
	metaKeyPlanChange = "isPlanChange"
)

// ToMap serializes the metadata for the gateway request body.
func (m CheckoutMetadata) ToMap() map[string]string {
	out := map[string]string{
		metaKeyUserID:   m.UserID,
		metaKeyPlanType: string(m.PlanType),
	}
	if m.IsPlanChange {
		out[metaKeyPlanChange] = "true"
	}
	return out
}

// CheckoutMetadataFromMap parses a gateway metadata bag. Missing keys yield
// zero values; callers decide whether an absent user id is an error
// (client verification) or a logged no-op (webhook).
func CheckoutMetadataFromMap(raw map[string]string) CheckoutMetadata {
	if raw == nil {
		return CheckoutMetadata{}
	}
	return CheckoutMetadata{
		UserID:       raw[metaKeyUserID],
		PlanType:     PlanTier(raw[metaKeyPlanType]),
		IsPlanChange: raw[metaKeyPlanChange] == "true",
	}
}
