package payment

import (
	"context"
	"fmt"
	"sync"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopGateway)(nil)

// NoopGateway is an in-memory gateway for dev mode and tests. Sessions it
// creates are immediately retrievable and report a paid payment.
type NoopGateway struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*adapter.CheckoutSession
}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{sessions: make(map[string]*adapter.CheckoutSession)}
}

func (g *NoopGateway) Name() string { return "noop" }

func (g *NoopGateway) CreateCheckoutSession(ctx context.Context, spec adapter.CheckoutSpec) (*adapter.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	id := fmt.Sprintf("cs_noop_%d", g.seq)
	s := &adapter.CheckoutSession{
		ID:          id,
		CheckoutURL: "https://checkout.invalid/" + id,
		Status:      "active",
		Metadata:    spec.Metadata,
		Payments:    []adapter.PaymentAttempt{{ID: "pay_noop", Status: "paid"}},
	}
	g.sessions[id] = s
	return s, nil
}

func (g *NoopGateway) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, &domain.GatewayError{StatusCode: 404, Detail: "no such checkout session"}
	}
	return s, nil
}

func (g *NoopGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, &domain.GatewayError{StatusCode: 404, Detail: "no such checkout session"}
	}
	s.Status = "expired"
	return s, nil
}
