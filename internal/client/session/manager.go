package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/tradehub/tradehub-client/internal/client/storage"
	"github.com/tradehub/tradehub-client/internal/validation"
	pkgapi "github.com/tradehub/tradehub-client/pkg/api"
)

// State is the authentication state of the session.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateRehydrating     State = "rehydrating"
	StateAuthenticated   State = "authenticated"
)

//go:generate moq -out api_mock.go . APIClient

// APIClient is the slice of the REST client the session manager depends on.
type APIClient interface {
	// Login authenticates with email and password.
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.AuthResponse, error)

	// Register creates a new account.
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.AuthResponse, error)

	// GetProfile fetches the current user through the authenticated transport.
	GetProfile(ctx context.Context) (*pkgapi.User, error)

	// ProviderAuthURL builds the external provider's authorization URL.
	ProviderAuthURL(provider, role string) string
}

// Manager owns the session state. It is the only component that mutates it:
// login, registration, the external-provider callback, rehydration on
// startup, and logout all go through here. The session store handle is
// injected explicitly so there is no ambient global session.
type Manager struct {
	api      APIClient
	sessions storage.SessionStorage
	logger   *slog.Logger

	mu    sync.Mutex
	state State
	user  *pkgapi.User
}

// NewManager creates a session manager starting in the unauthenticated state.
func NewManager(api APIClient, sessions storage.SessionStorage, logger *slog.Logger) *Manager {
	return &Manager{
		api:      api,
		sessions: sessions,
		logger:   logger,
		state:    StateUnauthenticated,
	}
}

// State returns the current authentication state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentUser returns the cached user snapshot, or nil when unauthenticated.
func (m *Manager) CurrentUser() *pkgapi.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	cp := *m.user
	return &cp
}

// Login authenticates with email and password. On success the user and
// tokens are persisted and the state moves to authenticated; on failure the
// state is unchanged and the error is surfaced to the caller for display.
func (m *Manager) Login(ctx context.Context, email, password string) (*pkgapi.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	m.setState(StateAuthenticating)

	resp, err := m.api.Login(ctx, pkgapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		m.setState(StateUnauthenticated)
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if err := m.persistAuth(ctx, &resp.User, resp.Tokens); err != nil {
		m.setState(StateUnauthenticated)
		return nil, err
	}

	m.logger.Info("logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	return m.CurrentUser(), nil
}

// Register creates a new account and logs it in. The server enforces email
// uniqueness; a conflict is surfaced as an error like any other failure.
func (m *Manager) Register(ctx context.Context, name, email, password, role string) (*pkgapi.User, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, fmt.Errorf("invalid name: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}
	if err := validation.ValidateRegistrationRole(role); err != nil {
		return nil, fmt.Errorf("invalid role: %w", err)
	}

	m.setState(StateAuthenticating)

	resp, err := m.api.Register(ctx, pkgapi.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		m.setState(StateUnauthenticated)
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	if err := m.persistAuth(ctx, &resp.User, resp.Tokens); err != nil {
		m.setState(StateUnauthenticated)
		return nil, err
	}

	m.logger.Info("registered", "user_id", resp.User.ID, "role", resp.User.Role)
	return m.CurrentUser(), nil
}

// ProviderAuthURL returns the URL the user must open in a browser to log in
// through an external identity provider. Nothing is called here; the
// provider later redirects back with tokens in the query string, which
// ConsumeCallback picks up.
func (m *Manager) ProviderAuthURL(provider, role string) (string, error) {
	if err := validation.ValidateRegistrationRole(role); err != nil {
		return "", fmt.Errorf("invalid role: %w", err)
	}
	return m.api.ProviderAuthURL(provider, role), nil
}

// ConsumeCallback handles the external-provider redirect contract: a URL
// carrying accessToken and refreshToken query parameters. The tokens are
// persisted, the parameters are stripped from the returned URL so the
// callback cannot re-trigger or leak, and the session is rehydrated against
// the server. A URL without both parameters is returned unchanged with
// consumed=false.
func (m *Manager) ConsumeCallback(ctx context.Context, rawURL string) (stripped string, consumed bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, false, fmt.Errorf("invalid callback URL: %w", err)
	}

	query := u.Query()
	accessToken := query.Get("accessToken")
	refreshToken := query.Get("refreshToken")
	if accessToken == "" || refreshToken == "" {
		return rawURL, false, nil
	}

	query.Del("accessToken")
	query.Del("refreshToken")
	u.RawQuery = query.Encode()

	tokens := pkgapi.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}
	if err := m.persistTokens(ctx, tokens); err != nil {
		return u.String(), true, err
	}

	if err := m.Rehydrate(ctx); err != nil {
		return u.String(), true, err
	}

	return u.String(), true, nil
}

// Rehydrate reconstructs the session on startup from persisted tokens. With
// no stored access token it resolves immediately to unauthenticated, with
// zero network calls. With one, the current profile is re-fetched from the
// server — the cached snapshot is never trusted alone, since role,
// verification or subscription fields may have changed server-side. An
// expired access token is refreshed transparently by the transport; if that
// fails too, the store is cleared and the session resolves unauthenticated.
func (m *Manager) Rehydrate(ctx context.Context) error {
	session, err := m.sessions.GetSession(ctx)
	if err != nil || session.AccessToken == "" {
		m.setState(StateUnauthenticated)
		return nil
	}

	m.setState(StateRehydrating)

	user, err := m.api.GetProfile(ctx)
	if err != nil {
		m.logger.Warn("rehydration failed, clearing session", "error", err)
		if delErr := m.sessions.DeleteSession(ctx); delErr != nil {
			m.logger.Error("failed to clear session", "error", delErr)
		}
		m.mu.Lock()
		m.user = nil
		m.state = StateUnauthenticated
		m.mu.Unlock()
		return nil
	}

	// Re-read: the transport may have rotated tokens during the fetch
	session, err = m.sessions.GetSession(ctx)
	if err != nil {
		session = &storage.SessionData{}
	}
	session.User = user
	if err := m.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to persist user snapshot: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.logger.Debug("session rehydrated", "user_id", user.ID)
	return nil
}

// RefreshUser re-fetches the current profile and updates the cached
// snapshot. Authentication state is unchanged. Used after any mutation that
// may have changed server-side user fields.
func (m *Manager) RefreshUser(ctx context.Context) (*pkgapi.User, error) {
	user, err := m.api.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh user: %w", err)
	}

	session, err := m.sessions.GetSession(ctx)
	if err != nil {
		session = &storage.SessionData{}
	}
	session.User = user
	if err := m.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist user snapshot: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	return m.CurrentUser(), nil
}

// Logout clears the stored session and moves to unauthenticated. Purely
// local: the server independently owns whether the refresh token is still
// redeemable. Safe to call when already logged out.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}

	m.mu.Lock()
	m.user = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()

	m.logger.Info("logged out")
	return nil
}

// persistAuth stores user plus tokens and moves to authenticated.
func (m *Manager) persistAuth(ctx context.Context, user *pkgapi.User, tokens pkgapi.TokenPair) error {
	clientID, err := m.getOrCreateClientID(ctx)
	if err != nil {
		return err
	}

	session := &storage.SessionData{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ClientID:     clientID,
	}
	if err := m.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.state = StateAuthenticated
	m.mu.Unlock()
	return nil
}

// persistTokens stores a token pair without a user snapshot; rehydration
// fills the snapshot in afterwards.
func (m *Manager) persistTokens(ctx context.Context, tokens pkgapi.TokenPair) error {
	clientID, err := m.getOrCreateClientID(ctx)
	if err != nil {
		return err
	}

	session := &storage.SessionData{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ClientID:     clientID,
	}
	if err := m.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// getOrCreateClientID returns the per-install client ID, generating one on
// the first login on this machine and reusing it afterwards.
func (m *Manager) getOrCreateClientID(ctx context.Context) (string, error) {
	session, err := m.sessions.GetSession(ctx)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			return uuid.New().String(), nil
		}
		return "", fmt.Errorf("failed to get session data: %w", err)
	}

	if session.ClientID != "" {
		return session.ClientID, nil
	}

	return uuid.New().String(), nil
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}
