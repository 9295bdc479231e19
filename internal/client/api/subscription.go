package api

import (
	"context"
	"net/http"
)

// SubscriptionStatus reports whether the user still counts as a first-time
// buyer. Checkout uses this to pick between a hosted session and a
// subscription update.
func (c *Client) SubscriptionStatus(ctx context.Context, accessToken string) (*SubscriptionStatusResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/auth/subscription/status/", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var out SubscriptionStatusResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitOnboarding submits the onboarding questionnaire. Validation failures
// come back as an *APIError with per-field Details.
func (c *Client) SubmitOnboarding(ctx context.Context, accessToken string, req OnboardingRequest) (*OnboardingResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/subscription/onboarding/", accessToken, req)
	if err != nil {
		return nil, err
	}

	var out OnboardingResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitPlacementTest grades the placement test and returns the suggested
// course level.
func (c *Client) SubmitPlacementTest(ctx context.Context, accessToken string, req PlacementTestRequest) (*PlacementTestResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/subscription/placement-test/", accessToken, req)
	if err != nil {
		return nil, err
	}

	var out PlacementTestResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
