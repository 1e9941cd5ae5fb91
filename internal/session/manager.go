// Package session holds the process-wide session state: current identity,
// offline flag and startup readiness. Collections reread identity from here
// on every operation instead of caching it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kostromin/fittrack/internal/domain"
)

// AuthService is the slice of the auth client the manager needs.
type AuthService interface {
	Register(ctx context.Context, email, password, username string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	CurrentSession(ctx context.Context) (*domain.User, error)
	SignOut(ctx context.Context) error
}

// Session is an immutable snapshot of the current state.
type Session struct {
	User    *domain.User
	Offline bool
	Ready   bool
}

// Authenticated reports whether a non-guest identity is present.
func (s Session) Authenticated() bool {
	return s.User != nil && !s.Offline
}

// UserID returns the current identity, or "" when unauthenticated.
func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// Manager owns session state. All mutation goes through its methods.
type Manager struct {
	auth AuthService

	mu      sync.Mutex
	user    *domain.User
	offline bool
	ready   bool

	readyCh   chan struct{}
	readyOnce sync.Once
}

// NewManager creates a manager; call Start before dependent reads.
func NewManager(auth AuthService) *Manager {
	return &Manager{auth: auth, readyCh: make(chan struct{})}
}

func (m *Manager) markReady() {
	m.readyOnce.Do(func() { close(m.readyCh) })
}

// Start probes for an existing server-side session and marks the manager
// ready. With a nil auth service (offline-only builds) the probe is skipped.
func (m *Manager) Start(ctx context.Context) error {
	if m.auth == nil {
		m.mu.Lock()
		m.ready = true
		m.mu.Unlock()
		m.markReady()
		return nil
	}

	user, err := m.auth.CurrentSession(ctx)

	m.mu.Lock()
	if err == nil && user != nil {
		m.user = user
	}
	m.ready = true
	m.mu.Unlock()
	m.markReady()

	if err != nil {
		slog.Warn("session probe failed", "error", err)
		return err
	}
	if user != nil {
		slog.Info("session restored", "user_id", user.ID)
	}
	return nil
}

// WaitReady blocks until the startup probe has completed.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Session{User: m.user, Offline: m.offline, Ready: m.ready}
}

func (m *Manager) setUser(user *domain.User, offline bool) {
	m.mu.Lock()
	m.user = user
	m.offline = offline
	m.ready = true
	m.mu.Unlock()
	m.markReady()
}

// SignIn authenticates with the remote service and switches to online mode.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if m.auth == nil {
		return nil, &domain.AuthError{Msg: "remote auth unavailable"}
	}
	user, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.setUser(user, false)
	slog.Info("signed in", "user_id", user.ID)
	return user, nil
}

// RegisterThenSignIn creates an account through the external collaborator,
// then signs in with the same credentials. When sign-in reports that the
// account already holds an active session, the saga recovers by adopting
// that session instead of failing.
func (m *Manager) RegisterThenSignIn(ctx context.Context, email, password, username string) (*domain.User, error) {
	if m.auth == nil {
		return nil, &domain.RegistrationError{Msg: "remote auth unavailable"}
	}
	if _, err := m.auth.Register(ctx, email, password, username); err != nil {
		return nil, err
	}

	user, err := m.auth.SignIn(ctx, email, password)
	if errors.Is(err, domain.ErrSessionActive) {
		existing, sessErr := m.auth.CurrentSession(ctx)
		if sessErr != nil {
			return nil, sessErr
		}
		if existing == nil {
			return nil, &domain.AuthError{Msg: "active session reported but none found"}
		}
		slog.Info("recovered existing session after registration", "user_id", existing.ID)
		user, err = existing, nil
	}
	if err != nil {
		return nil, err
	}

	m.setUser(user, false)
	slog.Info("registered and signed in", "user_id", user.ID)
	return user, nil
}

// EnterOfflineMode switches to the guest identity. Always succeeds.
func (m *Manager) EnterOfflineMode() *domain.User {
	user := domain.OfflineUser()
	m.setUser(user, true)
	slog.Info("entered offline mode")
	return user
}

// SignOut clears the session. The remote sign-out is skipped for guests.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	wasOffline := m.offline
	m.mu.Unlock()

	if !wasOffline && m.auth != nil {
		if err := m.auth.SignOut(ctx); err != nil {
			return err
		}
	}
	m.setUser(nil, false)
	slog.Info("signed out")
	return nil
}
