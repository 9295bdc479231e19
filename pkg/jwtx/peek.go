package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The client never verifies token signatures; that is the backend's job. It
// only peeks at the exp claim of its own access token so it can refresh a
// little before the token goes stale instead of waiting for a 401.

var (
	// ErrNotJWT reports a token that is not parseable as a JWT. Opaque access
	// tokens are valid; callers should fall back to reactive refresh.
	ErrNotJWT = errors.New("jwtx: token is not a jwt")

	// ErrNoExpiry reports a JWT without an exp claim.
	ErrNoExpiry = errors.New("jwtx: token has no expiry claim")
)

var parser = jwt.NewParser(jwt.WithoutClaimsValidation())

// PeekExpiry extracts the exp claim from a JWT without verifying its
// signature.
func PeekExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, ErrNotJWT
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// ExpiresWithin reports whether the token is a JWT expiring within d of now.
// Non-JWT tokens and tokens without exp report false; the caller will learn
// about expiry from the server instead.
func ExpiresWithin(token string, d time.Duration) bool {
	exp, err := PeekExpiry(token)
	if err != nil {
		return false
	}
	return time.Until(exp) < d
}
