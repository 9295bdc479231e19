package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
)

// StripeCheckout creates a hosted Stripe Checkout session for the given plan
// and returns the URL the user should be sent to. Level is optional and is
// only set when the user accepted a placement test result.
func (c *Client) StripeCheckout(ctx context.Context, accessToken string, plan domain.PlanKey, level string) (*CheckoutSessionResponse, error) {
	payload := map[string]string{"plan": string(plan)}
	if level != "" {
		payload["level"] = level
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/api/payments/stripe/checkout", accessToken, payload)
	if err != nil {
		return nil, err
	}

	var out CheckoutSessionResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StripeCreateSubscription creates a Stripe subscription for embedded card
// collection and returns the client secret used to confirm the payment.
func (c *Client) StripeCreateSubscription(ctx context.Context, accessToken string, plan domain.PlanKey, level string) (*CreateSubscriptionResponse, error) {
	payload := map[string]string{"plan": string(plan)}
	if level != "" {
		payload["level"] = level
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/api/payments/stripe/create-subscription", accessToken, payload)
	if err != nil {
		return nil, err
	}

	var out CreateSubscriptionResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StripeVerify checks whether a hosted Checkout session settled.
func (c *Client) StripeVerify(ctx context.Context, accessToken, sessionID string) (*StripeVerifyResponse, error) {
	path := "/api/payments/stripe/verify?session_id=" + url.QueryEscape(sessionID)
	resp, err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var out StripeVerifyResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StripeVerifyIntent checks whether a payment intent settled. Embedded card
// payments are verified through this path.
func (c *Client) StripeVerifyIntent(ctx context.Context, accessToken, paymentIntent string) (*IntentVerifyResponse, error) {
	path := "/api/payments/stripe/verify-intent?payment_intent=" + url.QueryEscape(paymentIntent)
	resp, err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var out IntentVerifyResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PayPalCreateSubscription creates a PayPal subscription and returns the
// approval URL along with the provider's subscription id.
func (c *Client) PayPalCreateSubscription(ctx context.Context, accessToken string, plan domain.PlanKey, level string) (*PayPalCreateResponse, error) {
	payload := map[string]string{"plan": string(plan)}
	if level != "" {
		payload["level"] = level
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/api/payments/paypal/create-subscription", accessToken, payload)
	if err != nil {
		return nil, err
	}

	var out PayPalCreateResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PayPalVerify checks whether a PayPal subscription has been activated.
func (c *Client) PayPalVerify(ctx context.Context, accessToken, subscriptionID string) (*PayPalVerifyResponse, error) {
	path := "/api/payments/paypal/verify?subscription_id=" + url.QueryEscape(subscriptionID)
	resp, err := c.doJSON(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, err
	}

	var out PayPalVerifyResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
