package gymauth

import (
	"context"
)

// SessionManager is the single authority over the session: it owns the token
// lifecycle and the derived authenticated flag, so there is one query method
// instead of two sources of truth. All SessionStore mutations flow through
// its operations.
type SessionManager struct {
	service *SessionService
	state   *SessionStore
	logger  Logger
}

// NewSessionManager returns a manager over the given service with a fresh
// state store.
func NewSessionManager(service *SessionService) *SessionManager {
	return &SessionManager{
		service: service,
		state:   NewSessionStore(),
		logger:  defLogger{},
	}
}

// WithLogger sets the manager logger
func (m *SessionManager) WithLogger(logger Logger) *SessionManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithStateStore replaces the state store, useful when an embedder already
// holds subscriptions on one.
func (m *SessionManager) WithStateStore(store *SessionStore) *SessionManager {
	if store != nil {
		m.state = store
	}
	return m
}

// State exposes the observable session store
func (m *SessionManager) State() *SessionStore {
	return m.state
}

// Service exposes the underlying session service
func (m *SessionManager) Service() *SessionService {
	return m.service
}

// IsAuthenticated re-reads the token store: true iff an access token is
// present and unexpired. It never consults the cached user, so a cleared or
// expired pair reports false regardless of other state.
func (m *SessionManager) IsAuthenticated(ctx context.Context) bool {
	return m.service.Client().IsAuthenticated(ctx)
}

// CurrentUser returns the cached user or nil
func (m *SessionManager) CurrentUser() *User {
	return m.state.Snapshot().User
}

// Login drives the state store around the service call: loading while in
// flight, user + authenticated on success, recorded error on failure. The
// failure is re-raised to the caller; recording it in state is not a
// substitute for handling it.
func (m *SessionManager) Login(ctx context.Context, payload LoginRequest) (*User, error) {
	m.state.beginAuth()

	user, err := m.service.Login(ctx, payload)
	if err != nil {
		m.logger.Error("login failed", "error", err)
		m.state.authFailed(err.Error())
		return nil, err
	}

	m.state.authSucceeded(user)
	return user, nil
}

// Signup mirrors Login's state handling for registration
func (m *SessionManager) Signup(ctx context.Context, payload SignupRequest) (*User, error) {
	m.state.beginAuth()

	user, err := m.service.Signup(ctx, payload)
	if err != nil {
		m.logger.Error("signup failed", "error", err)
		m.state.authFailed(err.Error())
		return nil, err
	}

	m.state.authSucceeded(user)
	return user, nil
}

// Logout clears the local session unconditionally. The remote failure, if
// any, propagates after local state is already reset.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.state.beginLogout()

	err := m.service.Logout(ctx)
	m.state.finishLogout()

	if err != nil {
		m.logger.Warn("logout completed locally, remote call failed", "error", err)
	}

	return err
}

// Rehydrate restores the cached user from /auth/me when a valid token exists
// but no user is cached, e.g. after a process restart. It is awaited before
// any guard decision so a live session is never misread as anonymous. An
// auth failure clears the stored pair; transient failures leave it intact
// and propagate.
func (m *SessionManager) Rehydrate(ctx context.Context) error {
	if m.state.Snapshot().User != nil {
		return nil
	}

	if !m.IsAuthenticated(ctx) {
		return nil
	}

	user, err := m.service.Me(ctx)
	if err != nil {
		if IsAuthFailure(err) {
			m.logger.Info("rehydration rejected, clearing stored pair", "error", err)
			if clearErr := m.service.Client().TokenStore().Clear(ctx); clearErr != nil {
				m.logger.Error("failed to clear tokens after rejected rehydration", "error", clearErr)
			}
			return nil
		}
		return err
	}

	m.state.SetUser(user)
	return nil
}
