// Package session owns the authentication state machine. It converts backend
// auth events and user actions (sign in, sign up, sign out) into a single
// current State value and pushes changes to subscribers.
package session

import (
	"context"
	"sync"

	"profilesync/internal/backend"
	"profilesync/internal/common"
	"profilesync/internal/lifecycle"
	"profilesync/internal/logging"
	"profilesync/internal/metrics"
)

// Manager resolves and tracks the current authentication state.
//
// The zero value is unusable; construct with NewManager and call Start once
// before any other method. All methods are safe for concurrent use.
type Manager struct {
	auth backend.AuthClient
	log  logging.Logger

	mu       sync.RWMutex
	state    State
	nextSub  int
	subs     map[int]func(State)
	unsubCbs []func()
}

func NewManager(auth backend.AuthClient, log logging.Logger) *Manager {
	return &Manager{
		auth:  auth,
		log:   log,
		state: Unauthenticated(),
		subs:  make(map[int]func(State)),
	}
}

// Start resolves the initial state from the backend's persisted session and
// subscribes to auth-change notifications. Backend notifications are treated
// as authoritative overwrites of the current state.
func (m *Manager) Start(ctx context.Context) error {
	s, err := m.auth.GetSession(ctx)
	if err != nil {
		return common.E(common.KindAuth, "session.Start", err)
	}
	if s != nil {
		m.setState(Authenticated(s))
	}

	unsub := m.auth.OnAuthStateChange(func(ev backend.AuthEvent, s *backend.Session) {
		m.log.Info(context.Background(), "auth state change", "event", string(ev))
		if ev == backend.EventTokenRefreshed {
			metrics.TokenRefreshes.Inc()
		}
		if s == nil {
			m.setState(Unauthenticated())
			return
		}
		m.setState(Authenticated(s))
	})

	m.mu.Lock()
	m.unsubCbs = append(m.unsubCbs, unsub)
	m.mu.Unlock()
	return nil
}

// Close unregisters backend and lifecycle subscriptions. The current state
// is left untouched.
func (m *Manager) Close() {
	m.mu.Lock()
	cbs := m.unsubCbs
	m.unsubCbs = nil
	m.mu.Unlock()
	for _, fn := range cbs {
		fn()
	}
}

// Current returns the current state.
func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// OnChange registers fn to run on every state change. The returned function
// unregisters it.
func (m *Manager) OnChange(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// SignIn authenticates with email and password. On success the state becomes
// Authenticated; on failure it stays as it was and an auth-kind error is
// returned. Exactly one of the two happens.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	s, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		metrics.SignInAttempts.WithLabelValues(metrics.ResultError).Inc()
		return common.E(common.KindAuth, "session.SignIn", err)
	}
	metrics.SignInAttempts.WithLabelValues(metrics.ResultOK).Inc()
	m.setState(Authenticated(s))
	return nil
}

// SignUp creates an account. When the backend returns a session immediately
// the state becomes Authenticated; when it returns none the account awaits
// email confirmation and the state becomes PendingVerification. On failure
// the state is unchanged.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	s, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return common.E(common.KindAuth, "session.SignUp", err)
	}
	if s == nil {
		m.setState(PendingVerification())
		return nil
	}
	m.setState(Authenticated(s))
	return nil
}

// SignOut destroys the session and moves to Unauthenticated from any prior
// state. The local transition happens even when the backend call fails, so
// the operation is idempotent from the caller's point of view.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.auth.SignOut(ctx)
	m.setState(Unauthenticated())
	if err != nil {
		return common.E(common.KindAuth, "session.SignOut", err)
	}
	return nil
}

// BindLifecycle toggles background token auto-refresh on foreground and
// background transitions. The toggle is independent of session state and
// never blocks in-flight operations. The returned function unbinds.
func (m *Manager) BindLifecycle(n *lifecycle.Notifier) (unbind func()) {
	unsub := n.Subscribe(func(ev lifecycle.Event) {
		switch ev {
		case lifecycle.Foreground:
			m.auth.StartAutoRefresh()
		case lifecycle.Background:
			m.auth.StopAutoRefresh()
		}
	})
	m.mu.Lock()
	m.unsubCbs = append(m.unsubCbs, unsub)
	m.mu.Unlock()
	return unsub
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
