package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: not found")

// Well-known storage keys. The token pair and the cached profile live in
// whichever backend the remember-me choice selected; the cart is always
// durable; the PayPal pending id is written wherever the session lives but
// read from and cleared in both backends.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserProfile  = "user_profile"
	KeyCart         = "ds_cart_v1"

	// KeyPayPalPendingSubscription survives the cross-site redirect to
	// PayPal; it is written before navigating away and consumed on return.
	KeyPayPalPendingSubscription = "paypal_pending_subscription_id"
)

// KeyValueStore is one persistence backend for client state. Concrete
// drivers: sqlite (durable, survives restarts) and memory (session-scoped,
// cleared when the process ends).
type KeyValueStore interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}
