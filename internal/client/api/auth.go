package api

import (
	"context"
	"net/http"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
)

// Login authenticates with email and password and returns the token pair
// plus the user's profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login/", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a new access token. The backend may
// also rotate the refresh token; callers must keep the old one when the
// response omits it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{
		"refresh": refreshToken,
	})
	if err != nil {
		return nil, err
	}

	var out RefreshResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/auth/profile/", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var out domain.UserProfile
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update and returns the updated
// profile. Only the fields present in updates are touched server-side.
func (c *Client) UpdateProfile(ctx context.Context, accessToken string, updates map[string]any) (*domain.UserProfile, error) {
	resp, err := c.doJSON(ctx, http.MethodPut, "/api/auth/profile/update/", accessToken, updates)
	if err != nil {
		return nil, err
	}

	var out domain.UserProfile
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the refresh token server-side. Local state is cleared by
// the caller regardless of whether revocation succeeds.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout/", accessToken, map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}
