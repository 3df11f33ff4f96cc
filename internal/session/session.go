// Package session tracks whether the CLI is signed in to the backend.
//
// The session is a two-state machine. It starts Anonymous, becomes
// Authenticated after a successful login or a confirmed restore, and drops
// back to Anonymous on logout or on any 401 from the backend. The bearer
// token lives in the keyring; the user snapshot is cached on disk.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/stocksage/sage/internal/api"
	"github.com/stocksage/sage/internal/forms"
	"github.com/stocksage/sage/internal/keyring"
	"github.com/stocksage/sage/pkg/sageapi"
)

// State is the authentication state.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is a snapshot of the authentication state.
type Session struct {
	State State
	Token string
	User  *sageapi.User
}

// Manager owns the session and keeps the keyring and user cache in sync
// with it. It is safe for concurrent use.
type Manager struct {
	store     keyring.Store
	cachePath string
	client    *api.Client
	logger    *zap.Logger

	mu      sync.Mutex
	current Session
}

// NewManager creates a Manager and wires it into client as the token
// source and 401 handler.
func NewManager(store keyring.Store, cachePath string, client *api.Client) *Manager {
	m := &Manager{
		store:     store,
		cachePath: cachePath,
		client:    client,
		logger:    zap.NewNop(),
	}
	client.Tokens = m
	client.OnUnauthorized = m.HandleUnauthorized
	return m
}

// WithLogger sets the logger used for state transitions.
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Token
}

// Current returns a copy of the session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) snapshot() Session {
	s := m.current
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Load reads the stored token and user snapshot without contacting the
// backend. A stored token alone is enough to be Authenticated.
func (m *Manager) Load() (Session, error) {
	token, err := keyring.LoadToken(m.store)
	if errors.Is(err, keyring.ErrNotFound) {
		m.set(Session{State: Anonymous})
		return m.Current(), nil
	}
	if err != nil {
		return m.Current(), fmt.Errorf("failed to read session token: %w", err)
	}

	user, err := LoadUser(m.cachePath)
	if err != nil {
		m.logger.Debug("no cached user snapshot", zap.Error(err))
		user = nil
	}

	m.set(Session{State: Authenticated, Token: token, User: user})
	return m.Current(), nil
}

// Restore is the startup check. Without a stored token it settles on
// Anonymous without any request. Otherwise the backend confirms the token:
// a negative answer clears the session, an unreachable backend keeps it
// and reports the error.
func (m *Manager) Restore(ctx context.Context) (Session, error) {
	s, err := m.Load()
	if err != nil {
		return s, err
	}
	if s.State == Anonymous {
		return s, nil
	}

	status, err := m.client.CheckAuth(ctx)
	if err != nil {
		if sageapi.IsUnauthorized(err) {
			// HandleUnauthorized already ran from the client hook.
			return m.Current(), nil
		}
		m.logger.Warn("could not verify session", zap.Error(err))
		return m.Current(), err
	}

	if !status.Authenticated {
		m.clear("backend reported session as not authenticated")
		return m.Current(), nil
	}

	if status.User != nil {
		m.mu.Lock()
		m.current.User = status.User
		m.mu.Unlock()
		m.saveUser(status.User)
	}
	return m.Current(), nil
}

// Login validates the credentials, exchanges them for a token and persists
// the new session.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	if err := forms.ValidateLogin(email, password); err != nil {
		return m.Current(), err
	}

	resp, err := m.client.Login(ctx, sageapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return m.Current(), err
	}
	if resp.Token == "" {
		return m.Current(), &sageapi.ParseError{What: "login response", Err: errors.New("missing token")}
	}

	if err := keyring.SaveToken(m.store, resp.Token); err != nil {
		return m.Current(), err
	}

	user := resp.User
	if user == nil {
		user = &sageapi.User{Email: email}
	}
	m.saveUser(user)

	m.set(Session{State: Authenticated, Token: resp.Token, User: user})
	m.logger.Info("signed in", zap.String("email", user.Email))
	return m.Current(), nil
}

// Register validates the signup form and creates the account. The session
// stays as it was; the user signs in afterwards.
func (m *Manager) Register(ctx context.Context, form forms.Signup) (*sageapi.MessageResponse, error) {
	if err := forms.ValidateSignup(form); err != nil {
		return nil, err
	}
	return m.client.Register(ctx, form.Request())
}

// Logout clears the local session. The backend is told on a best-effort
// basis: the returned error only describes that call, local state is
// cleared either way.
func (m *Manager) Logout(ctx context.Context) error {
	var serverErr error
	if m.Token() != "" {
		serverErr = m.client.Logout(ctx)
		if serverErr != nil {
			m.logger.Warn("server logout failed", zap.Error(serverErr))
		}
	}
	m.clear("logout")
	return serverErr
}

// HandleUnauthorized drops the session after the backend rejected the token.
func (m *Manager) HandleUnauthorized() {
	m.clear("backend answered 401")
}

// UpdateUser replaces the cached user after a profile change.
func (m *Manager) UpdateUser(user *sageapi.User) {
	if user == nil {
		return
	}
	m.mu.Lock()
	if m.current.State != Authenticated {
		m.mu.Unlock()
		return
	}
	u := *user
	m.current.User = &u
	m.mu.Unlock()
	m.saveUser(user)
}

func (m *Manager) set(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}

func (m *Manager) clear(reason string) {
	m.mu.Lock()
	was := m.current.State
	m.current = Session{State: Anonymous}
	m.mu.Unlock()

	if err := keyring.DeleteToken(m.store); err != nil {
		m.logger.Warn("could not clear stored token", zap.Error(err))
	}
	if err := DeleteUser(m.cachePath); err != nil {
		m.logger.Warn("failed to delete session cache", zap.Error(err))
	}
	if was == Authenticated {
		m.logger.Info("signed out", zap.String("reason", reason))
	}
}

func (m *Manager) saveUser(user *sageapi.User) {
	if err := SaveUser(m.cachePath, user); err != nil {
		m.logger.Warn("failed to cache user snapshot", zap.Error(err))
	}
}
