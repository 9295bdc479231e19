// Package session owns the token lifecycle: login, initialization from
// stored tokens, serialized refresh with retry, and logout. It is the only
// package that writes the token pair.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/api"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/domain"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store"
	"github.com/playprowess89181-creator/daily-spanish-sub000/pkg/jwtx"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusUninitialized means Initialize has not completed yet. Gating
	// decisions must not be made in this state.
	StatusUninitialized Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "uninitialized"
	}
}

var (
	ErrNotAuthenticated = errors.New("not_authenticated")
	ErrSessionExpired   = errors.New("session_expired")
)

// refreshSkew is how close to expiry an access token may get before a
// request proactively refreshes instead of using it.
const refreshSkew = 30 * time.Second

// Manager owns the authenticated session. All methods are safe for
// concurrent use; refreshes are serialized so concurrent 401s trigger a
// single token rotation.
type Manager struct {
	api   *api.Client
	store *store.Dual
	log   *slog.Logger

	mu     sync.RWMutex
	status Status
	user   *domain.UserProfile

	// refreshMu serializes refresh attempts. The stored access token is
	// re-read under this lock so late arrivals reuse the fresh pair
	// instead of burning the rotated refresh token.
	refreshMu sync.Mutex
}

// NewManager creates a session manager on top of the API client and the
// dual store.
func NewManager(apiClient *api.Client, dual *store.Dual, log *slog.Logger) *Manager {
	return &Manager{
		api:   apiClient,
		store: dual,
		log:   log,
	}
}

// Status returns the current lifecycle state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// CurrentUser returns the cached profile, or nil when unauthenticated.
func (m *Manager) CurrentUser() *domain.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Initialize restores the session from stored tokens. With no stored access
// token the session is simply unauthenticated. With one, the profile is
// fetched to validate it; a rejected token gets one refresh attempt before
// the session is torn down. A transport failure falls back to the cached
// profile so the user is not logged out by a dead network.
func (m *Manager) Initialize(ctx context.Context) error {
	token, err := m.store.AccessToken(ctx)
	if errors.Is(err, store.ErrNotFound) {
		m.setState(StatusUnauthenticated, nil)
		return nil
	}
	if err != nil {
		return err
	}

	profile, err := m.api.Profile(ctx, token)
	if err == nil {
		m.cacheProfile(ctx, profile)
		m.setState(StatusAuthenticated, profile)
		return nil
	}

	if api.IsAuthError(err) {
		token, refreshErr := m.refresh(ctx, token)
		if refreshErr != nil {
			m.teardown(ctx)
			return nil
		}
		profile, err = m.api.Profile(ctx, token)
		if err == nil {
			m.cacheProfile(ctx, profile)
			m.setState(StatusAuthenticated, profile)
			return nil
		}
		if api.IsAuthError(err) {
			m.teardown(ctx)
			return nil
		}
	}

	if !api.IsAPIError(err) {
		if cached := m.cachedProfile(ctx); cached != nil {
			m.log.Warn("profile fetch failed, using cached profile", "error", err)
			m.setState(StatusAuthenticated, cached)
			return nil
		}
	}

	m.setState(StatusUnauthenticated, nil)
	return err
}

// Login authenticates with email and password. persist chooses remember-me:
// true stores the session durably, false keeps it for this process only.
func (m *Manager) Login(ctx context.Context, email, password string, persist bool) (*domain.UserProfile, error) {
	out, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.WriteTokens(ctx, out.AccessToken, out.RefreshToken, persist); err != nil {
		return nil, err
	}

	profile := out.User
	m.cacheProfile(ctx, &profile)
	m.setState(StatusAuthenticated, &profile)

	m.log.Info("logged in", "user_id", profile.ID, "persisted", persist)
	return &profile, nil
}

// Logout revokes the refresh token server-side on a best-effort basis and
// clears local session state unconditionally.
func (m *Manager) Logout(ctx context.Context) error {
	access, _ := m.store.AccessToken(ctx)
	refresh, err := m.store.RefreshToken(ctx)
	if err == nil {
		if err := m.api.Logout(ctx, access, refresh); err != nil {
			m.log.Warn("server-side logout failed", "error", err)
		}
	}
	m.teardown(ctx)
	m.log.Info("logged out")
	return nil
}

// Authorized runs fn with a valid access token. Tokens close to expiry are
// refreshed up front; a request rejected for auth reasons gets exactly one
// refresh-and-retry before the error is surfaced.
func (m *Manager) Authorized(ctx context.Context, fn func(ctx context.Context, accessToken string) error) error {
	token, err := m.store.AccessToken(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotAuthenticated
	}
	if err != nil {
		return err
	}

	if jwtx.ExpiresWithin(token, refreshSkew) {
		if token, err = m.refresh(ctx, token); err != nil {
			return err
		}
	}

	err = fn(ctx, token)
	if err == nil || !api.IsAuthError(err) {
		return err
	}

	token, refreshErr := m.refresh(ctx, token)
	if refreshErr != nil {
		return refreshErr
	}
	return fn(ctx, token)
}

// UpdateProfile applies a partial profile update and refreshes the cached
// profile with the server's response.
func (m *Manager) UpdateProfile(ctx context.Context, updates map[string]any) (*domain.UserProfile, error) {
	var profile *domain.UserProfile
	err := m.Authorized(ctx, func(ctx context.Context, token string) error {
		var err error
		profile, err = m.api.UpdateProfile(ctx, token, updates)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.cacheProfile(ctx, profile)
	m.setState(StatusAuthenticated, profile)
	return profile, nil
}

// refresh rotates the token pair. staleToken is the access token the caller
// just used; if the stored token already differs, another goroutine won the
// race and its result is reused. The persist choice made at login is
// preserved, and the old refresh token is kept when the server does not
// rotate it. A rejected refresh token tears the session down.
func (m *Manager) refresh(ctx context.Context, staleToken string) (string, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	current, err := m.store.AccessToken(ctx)
	if err == nil && current != staleToken {
		return current, nil
	}

	refreshToken, err := m.store.RefreshToken(ctx)
	if errors.Is(err, store.ErrNotFound) {
		m.teardown(ctx)
		return "", ErrSessionExpired
	}
	if err != nil {
		return "", err
	}

	persist := m.store.Persisted(ctx)

	out, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		if api.IsAPIError(err) {
			m.log.Info("refresh token rejected, ending session")
			m.teardown(ctx)
			return "", ErrSessionExpired
		}
		return "", err
	}

	newRefresh := out.Refresh
	if newRefresh == "" {
		newRefresh = refreshToken
	}
	if err := m.store.WriteTokens(ctx, out.Access, newRefresh, persist); err != nil {
		return "", err
	}

	return out.Access, nil
}

func (m *Manager) setState(status Status, user *domain.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.user = user
}

func (m *Manager) teardown(ctx context.Context) {
	if err := m.store.ClearTokens(ctx); err != nil {
		m.log.Warn("failed to clear tokens", "error", err)
	}
	if err := m.store.DeleteBoth(ctx, store.KeyUserProfile); err != nil {
		m.log.Warn("failed to clear cached profile", "error", err)
	}
	m.setState(StatusUnauthenticated, nil)
}

func (m *Manager) cacheProfile(ctx context.Context, profile *domain.UserProfile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := m.store.SetActive(ctx, store.KeyUserProfile, string(raw)); err != nil {
		m.log.Warn("failed to cache profile", "error", err)
	}
}

func (m *Manager) cachedProfile(ctx context.Context) *domain.UserProfile {
	raw, err := m.store.GetEither(ctx, store.KeyUserProfile)
	if err != nil {
		return nil
	}
	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil
	}
	return &profile
}
