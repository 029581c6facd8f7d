package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.PaymentGateway = (*PayMongoGateway)(nil)

const defaultBaseURL = "https://api.paymongo.com/v1"

// PayMongoGateway implements adapter.PaymentGateway against the PayMongo
// checkout sessions API using basic-auth credentials.
type PayMongoGateway struct {
	authHeader string
	baseURL    string
	client     *http.Client
}

// NewPayMongoGateway builds a gateway from the account secret key.
// baseURL may be empty to use the production API.
func NewPayMongoGateway(secretKey, baseURL string) (*PayMongoGateway, error) {
	if secretKey == "" {
		return nil, errors.New("paymongo secret key empty")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &PayMongoGateway{
		// PayMongo uses the secret key as a basic-auth username with an
		// empty password.
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(secretKey+":")),
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (g *PayMongoGateway) Name() string { return "paymongo" }

// --- wire types ---

type sessionAttributesBody struct {
	Billing *struct {
		Email string `json:"email,omitempty"`
	} `json:"billing,omitempty"`
	LineItems []lineItemBody `json:"line_items"`
	// amounts in centavos
	PaymentMethodTypes []string          `json:"payment_method_types"`
	SuccessURL         string            `json:"success_url"`
	CancelURL          string            `json:"cancel_url"`
	Description        string            `json:"description,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

type lineItemBody struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
}

type sessionResponse struct {
	Data sessionData `json:"data"`
}

type sessionData struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		CheckoutURL   string `json:"checkout_url"`
		Status        string `json:"status"`
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
		Metadata map[string]string `json:"metadata"`
	} `json:"attributes"`
}

type errorResponse struct {
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (d *sessionData) toSession() *adapter.CheckoutSession {
	s := &adapter.CheckoutSession{
		ID:          d.ID,
		CheckoutURL: d.Attributes.CheckoutURL,
		Status:      d.Attributes.Status,
		Metadata:    d.Attributes.Metadata,
	}
	if pi := d.Attributes.PaymentIntent; pi != nil {
		s.PaymentIntentMetadata = pi.Attributes.Metadata
	}
	for _, p := range d.Attributes.Payments {
		s.Payments = append(s.Payments, adapter.PaymentAttempt{ID: p.ID, Status: p.Attributes.Status})
	}
	return s
}

// --- operations ---

func (g *PayMongoGateway) CreateCheckoutSession(ctx context.Context, spec adapter.CheckoutSpec) (*adapter.CheckoutSession, error) {
	attrs := sessionAttributesBody{
		PaymentMethodTypes: spec.PaymentMethodTypes,
		SuccessURL:         spec.SuccessURL,
		CancelURL:          spec.CancelURL,
		Description:        spec.Description,
		Metadata:           spec.Metadata,
	}
	if spec.BillingEmail != "" {
		attrs.Billing = &struct {
			Email string `json:"email,omitempty"`
		}{Email: spec.BillingEmail}
	}
	for _, li := range spec.LineItems {
		attrs.LineItems = append(attrs.LineItems, lineItemBody{
			Name:        li.Name,
			Quantity:    li.Quantity,
			Amount:      li.Amount,
			Currency:    li.Currency,
			Description: li.Description,
		})
	}

	body := struct {
		Data struct {
			Attributes sessionAttributesBody `json:"attributes"`
		} `json:"data"`
	}{}
	body.Data.Attributes = attrs

	return g.doSession(ctx, http.MethodPost, g.baseURL+"/checkout_sessions", body)
}

func (g *PayMongoGateway) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return g.doSession(ctx, http.MethodGet, g.baseURL+"/checkout_sessions/"+sessionID, nil)
}

func (g *PayMongoGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) (*adapter.CheckoutSession, error) {
	if sessionID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return g.doSession(ctx, http.MethodPost, g.baseURL+"/checkout_sessions/"+sessionID+"/expire", nil)
}

func (g *PayMongoGateway) doSession(ctx context.Context, method, url string, body any) (*adapter.CheckoutSession, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", g.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ge := &domain.GatewayError{StatusCode: resp.StatusCode}
		var er errorResponse
		if err := json.Unmarshal(raw, &er); err == nil && len(er.Errors) > 0 {
			ge.Detail = er.Errors[0].Detail
		}
		return nil, ge
	}

	var out sessionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(raw))
	}
	return out.Data.toSession(), nil
}
