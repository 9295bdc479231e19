package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrGatewayUnavailable means embedded card collection cannot run (no
// publishable key, or the gateway could not be reached). The orchestrator
// degrades to hosted checkout when it sees this.
var ErrGatewayUnavailable = errors.New("card_gateway_unavailable")

// CardPaymentError reports a card confirmation the provider accepted but
// did not settle: declined, requires_action, and similar terminal intent
// states. These must not reach the success verification path.
type CardPaymentError struct {
	Status string
}

func (e *CardPaymentError) Error() string {
	return fmt.Sprintf("card payment not completed: intent status %q", e.Status)
}

// CardDetails is the card input for an embedded payment.
type CardDetails struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string
}

// CardGateway confirms a subscription's first payment with card details
// collected in-client, against the payment provider directly.
type CardGateway interface {
	// Available reports whether the gateway is configured and usable.
	Available() bool

	// ConfirmPayment confirms the payment behind clientSecret and returns
	// the provider's payment intent id for verification.
	ConfirmPayment(ctx context.Context, clientSecret string, card CardDetails) (string, error)
}

// StripeGateway confirms payments against the Stripe API using the
// publishable key. Only client-side operations are possible with this key;
// anything needing the secret key stays on the backend.
type StripeGateway struct {
	PublishableKey string
	BaseURL        string
	HTTPClient     *http.Client
}

// NewStripeGateway creates a gateway for the given publishable key. An
// empty key yields a gateway that reports itself unavailable.
func NewStripeGateway(publishableKey string) *StripeGateway {
	return &StripeGateway{
		PublishableKey: publishableKey,
		BaseURL:        "https://api.stripe.com",
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Available implements CardGateway.
func (g *StripeGateway) Available() bool {
	return g.PublishableKey != ""
}

// ConfirmPayment creates a payment method from the card details and
// confirms the payment intent behind clientSecret with it.
func (g *StripeGateway) ConfirmPayment(ctx context.Context, clientSecret string, card CardDetails) (string, error) {
	if !g.Available() {
		return "", ErrGatewayUnavailable
	}

	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return "", err
	}

	methodID, err := g.createPaymentMethod(ctx, card)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("payment_method", methodID)
	form.Set("client_secret", clientSecret)

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := g.postForm(ctx, "/v1/payment_intents/"+intentID+"/confirm", form, &out); err != nil {
		return "", err
	}

	// Only settled or still-settling intents may proceed to verification.
	switch strings.ToLower(out.Status) {
	case "succeeded", "processing":
		return out.ID, nil
	default:
		return "", &CardPaymentError{Status: out.Status}
	}
}

func (g *StripeGateway) createPaymentMethod(ctx context.Context, card CardDetails) (string, error) {
	form := url.Values{}
	form.Set("type", "card")
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", card.ExpMonth)
	form.Set("card[exp_year]", card.ExpYear)
	form.Set("card[cvc]", card.CVC)

	var out struct {
		ID string `json:"id"`
	}
	if err := g.postForm(ctx, "/v1/payment_methods", form, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (g *StripeGateway) postForm(ctx context.Context, path string, form url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.PublishableKey, "")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var stripeErr struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &stripeErr); err == nil && stripeErr.Error.Message != "" {
			return fmt.Errorf("stripe: %s: %s", stripeErr.Error.Code, stripeErr.Error.Message)
		}
		return fmt.Errorf("stripe: HTTP %d", resp.StatusCode)
	}

	return json.Unmarshal(body, target)
}

// intentIDFromSecret extracts the payment intent id from a client secret of
// the form pi_XXX_secret_YYY.
func intentIDFromSecret(clientSecret string) (string, error) {
	id, _, found := strings.Cut(clientSecret, "_secret_")
	if !found || !strings.HasPrefix(id, "pi_") {
		return "", fmt.Errorf("malformed client secret")
	}
	return id, nil
}
