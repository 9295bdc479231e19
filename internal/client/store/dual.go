package store

import (
	"context"
	"errors"
	"fmt"
)

// Dual presents the durable and session-scoped backends as one logical
// store. Exactly one backend is "active" at a time: the one holding the
// refresh token. Every component that caches session-scoped state (the user
// profile, the pending PayPal id) must route its backend choice through
// Active so state never splits across backends.
type Dual struct {
	durable KeyValueStore
	session KeyValueStore
}

// NewDual combines a durable and a session-scoped backend.
func NewDual(durable, session KeyValueStore) *Dual {
	return &Dual{durable: durable, session: session}
}

// Durable returns the durable backend. Cart persistence uses this directly:
// the cart is independent of the session and survives logout.
func (d *Dual) Durable() KeyValueStore { return d.durable }

// Session returns the session-scoped backend.
func (d *Dual) Session() KeyValueStore { return d.session }

// Active returns the backend currently holding the session, determined by
// where the refresh token lives. Durable is checked first and is the default
// when no session exists.
func (d *Dual) Active(ctx context.Context) KeyValueStore {
	if _, err := d.durable.Get(ctx, KeyRefreshToken); err == nil {
		return d.durable
	}
	if _, err := d.session.Get(ctx, KeyRefreshToken); err == nil {
		return d.session
	}
	return d.durable
}

// WriteTokens writes the token pair to the backend selected by persist and
// removes the pair from the other backend. The new pair is written before
// the old one is cleared so there is never a moment with no valid pair.
func (d *Dual) WriteTokens(ctx context.Context, access, refresh string, persist bool) error {
	target, other := d.session, d.durable
	if persist {
		target, other = d.durable, d.session
	}

	if err := target.Set(ctx, KeyAccessToken, access); err != nil {
		return fmt.Errorf("write access token: %w", err)
	}
	if err := target.Set(ctx, KeyRefreshToken, refresh); err != nil {
		return fmt.Errorf("write refresh token: %w", err)
	}

	if err := other.Delete(ctx, KeyAccessToken); err != nil {
		return fmt.Errorf("clear stale access token: %w", err)
	}
	if err := other.Delete(ctx, KeyRefreshToken); err != nil {
		return fmt.Errorf("clear stale refresh token: %w", err)
	}
	return nil
}

// AccessToken returns the access token from whichever backend holds one.
func (d *Dual) AccessToken(ctx context.Context) (string, error) {
	return d.getEither(ctx, KeyAccessToken)
}

// RefreshToken returns the refresh token from whichever backend holds one.
func (d *Dual) RefreshToken(ctx context.Context) (string, error) {
	return d.getEither(ctx, KeyRefreshToken)
}

// Persisted reports whether the current session lives in the durable
// backend, i.e. whether the user chose remember-me at login. Refresh must
// not change this choice.
func (d *Dual) Persisted(ctx context.Context) bool {
	_, err := d.durable.Get(ctx, KeyRefreshToken)
	return err == nil
}

// ClearTokens removes the token pair from both backends. Used on logout and
// on terminal refresh failure.
func (d *Dual) ClearTokens(ctx context.Context) error {
	var errs []error
	for _, backend := range []KeyValueStore{d.durable, d.session} {
		errs = append(errs,
			backend.Delete(ctx, KeyAccessToken),
			backend.Delete(ctx, KeyRefreshToken),
		)
	}
	return errors.Join(errs...)
}

// GetEither returns the value for key from the durable backend, falling back
// to the session backend. Readers of session-scoped cached state use this so
// a value written before the active backend flipped is still found.
func (d *Dual) GetEither(ctx context.Context, key string) (string, error) {
	return d.getEither(ctx, key)
}

// SetActive writes key to the currently active backend.
func (d *Dual) SetActive(ctx context.Context, key, value string) error {
	return d.Active(ctx).Set(ctx, key, value)
}

// DeleteBoth removes key from both backends.
func (d *Dual) DeleteBoth(ctx context.Context, key string) error {
	return errors.Join(
		d.durable.Delete(ctx, key),
		d.session.Delete(ctx, key),
	)
}

// Close closes both backends.
func (d *Dual) Close() error {
	return errors.Join(d.durable.Close(), d.session.Close())
}

func (d *Dual) getEither(ctx context.Context, key string) (string, error) {
	if v, err := d.durable.Get(ctx, key); err == nil {
		return v, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	return d.session.Get(ctx, key)
}
