package adapter

import "context"

// LineItem is one charged entry of a checkout session, with the amount in
// the smallest currency unit (centavos for PHP).
type LineItem struct {
	Name        string
	Quantity    int
	Amount      int64
	Currency    string
	Description string
}

// CheckoutSpec is everything needed to open a hosted checkout session.
// Metadata must carry the buyer's user id and plan type so the asynchronous
// webhook can recover identity later.
type CheckoutSpec struct {
	BillingEmail       string
	LineItems          []LineItem
	PaymentMethodTypes []string
	SuccessURL         string
	CancelURL          string
	Description        string
	Metadata           map[string]string
}

// PaymentAttempt is one payment tracked by a checkout session.
type PaymentAttempt struct {
	ID     string
	Status string
}

// CheckoutSession is the gateway-owned session record, read-only to this
// system. Metadata may be absent at the top level and present only on the
// nested payment intent, depending on which event shape the gateway sends.
type CheckoutSession struct {
	ID                    string
	CheckoutURL           string
	Status                string
	Metadata              map[string]string
	PaymentIntentMetadata map[string]string
	Payments              []PaymentAttempt
}

// EffectiveMetadata returns the session metadata, falling back to the
// nested payment intent's bag when the top level is absent.
func (s *CheckoutSession) EffectiveMetadata() map[string]string {
	if len(s.Metadata) > 0 {
		return s.Metadata
	}
	return s.PaymentIntentMetadata
}

// HasPaidEvidence reports whether the session should be treated as paid:
// its own status is active, or at least one payment attempt succeeded.
func (s *CheckoutSession) HasPaidEvidence() bool {
	if s.Status == "active" {
		return true
	}
	for _, p := range s.Payments {
		if p.Status == "paid" {
			return true
		}
	}
	return false
}

// PaymentGateway translates checkout intents into calls against the
// external payment API. Implementations must apply a request timeout and
// surface non-success responses as *domain.GatewayError.
type PaymentGateway interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, spec CheckoutSpec) (*CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	ExpireCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
