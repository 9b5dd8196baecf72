package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"profilesync/internal/backend"
	"profilesync/internal/common"
	"profilesync/internal/lifecycle"
	"profilesync/internal/logging"
)

// fakeAuth implements backend.AuthClient for manager tests.
type fakeAuth struct {
	SignInRet *backend.Session
	SignInErr error

	SignUpRet *backend.Session
	SignUpErr error

	SignOutErr error

	GetSessionRet *backend.Session
	GetSessionErr error

	listener func(backend.AuthEvent, *backend.Session)

	StartCalls int
	StopCalls  int
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	return f.SignInRet, f.SignInErr
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	return f.SignUpRet, f.SignUpErr
}

func (f *fakeAuth) SignOut(ctx context.Context) error { return f.SignOutErr }

func (f *fakeAuth) GetSession(ctx context.Context) (*backend.Session, error) {
	return f.GetSessionRet, f.GetSessionErr
}

func (f *fakeAuth) OnAuthStateChange(fn func(backend.AuthEvent, *backend.Session)) func() {
	f.listener = fn
	return func() { f.listener = nil }
}

func (f *fakeAuth) StartAutoRefresh() { f.StartCalls++ }
func (f *fakeAuth) StopAutoRefresh()  { f.StopCalls++ }

func testSession(id string) *backend.Session {
	return &backend.Session{
		AccessToken:  "at-" + id,
		RefreshToken: "rt-" + id,
		User:         backend.User{ID: id, Email: id + "@example.com"},
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func newManager(t *testing.T, auth *fakeAuth) *Manager {
	t.Helper()
	m := NewManager(auth, logging.Discard())
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(m.Close)
	return m
}

func TestStart_RestoresPersistedSession(t *testing.T) {
	auth := &fakeAuth{GetSessionRet: testSession("u1")}
	m := newManager(t, auth)

	st := m.Current()
	require.Equal(t, StatusAuthenticated, st.Status())
	s, ok := st.Session()
	require.True(t, ok)
	require.Equal(t, "u1", s.User.ID)
}

func TestStart_NoPersistedSession(t *testing.T) {
	m := newManager(t, &fakeAuth{})
	require.Equal(t, StatusUnauthenticated, m.Current().Status())
}

func TestSignIn_SuccessOrAuthErrorNeverBoth(t *testing.T) {
	tests := []struct {
		name    string
		auth    *fakeAuth
		wantErr bool
		want    Status
	}{
		{"success", &fakeAuth{SignInRet: testSession("u1")}, false, StatusAuthenticated},
		{"bad credentials", &fakeAuth{SignInErr: common.ErrInvalidCredentials}, true, StatusUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(t, tt.auth)
			err := m.SignIn(context.Background(), "a@example.com", "pw")
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, common.KindAuth, common.KindOf(err))
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, m.Current().Status())
		})
	}
}

func TestSignUp_NoSessionMeansPendingVerification(t *testing.T) {
	m := newManager(t, &fakeAuth{SignUpRet: nil})
	require.NoError(t, m.SignUp(context.Background(), "new@example.com", "pw"))
	require.Equal(t, StatusPendingVerification, m.Current().Status())
}

func TestSignUp_ImmediateSession(t *testing.T) {
	m := newManager(t, &fakeAuth{SignUpRet: testSession("u2")})
	require.NoError(t, m.SignUp(context.Background(), "new@example.com", "pw"))
	require.Equal(t, StatusAuthenticated, m.Current().Status())
}

func TestSignUp_FailureKeepsState(t *testing.T) {
	m := newManager(t, &fakeAuth{SignUpErr: errors.New("backend down")})
	err := m.SignUp(context.Background(), "new@example.com", "pw")
	require.Error(t, err)
	require.Equal(t, StatusUnauthenticated, m.Current().Status())
}

func TestSignOut_FromAnyState(t *testing.T) {
	tests := []struct {
		name string
		auth *fakeAuth
		prep func(m *Manager)
	}{
		{"from authenticated", &fakeAuth{GetSessionRet: testSession("u1")}, nil},
		{"from pending", &fakeAuth{}, func(m *Manager) {
			require.NoError(t, m.SignUp(context.Background(), "n@example.com", "pw"))
		}},
		{"already unauthenticated", &fakeAuth{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(t, tt.auth)
			if tt.prep != nil {
				tt.prep(m)
			}
			require.NoError(t, m.SignOut(context.Background()))
			require.Equal(t, StatusUnauthenticated, m.Current().Status())
		})
	}
}

func TestSignOut_BackendFailureStillTransitions(t *testing.T) {
	auth := &fakeAuth{GetSessionRet: testSession("u1"), SignOutErr: errors.New("network")}
	m := newManager(t, auth)
	err := m.SignOut(context.Background())
	require.Error(t, err)
	require.Equal(t, StatusUnauthenticated, m.Current().Status())
}

func TestAuthChange_OverwritesState(t *testing.T) {
	auth := &fakeAuth{GetSessionRet: testSession("u1")}
	m := newManager(t, auth)

	var seen []Status
	m.OnChange(func(s State) { seen = append(seen, s.Status()) })

	// Backend-driven refresh replaces the session.
	refreshed := testSession("u1")
	refreshed.AccessToken = "at-new"
	auth.listener(backend.EventTokenRefreshed, refreshed)

	s, ok := m.Current().Session()
	require.True(t, ok)
	require.Equal(t, "at-new", s.AccessToken)

	// Backend-driven invalidation clears it.
	auth.listener(backend.EventSignedOut, nil)
	require.Equal(t, StatusUnauthenticated, m.Current().Status())

	require.Equal(t, []Status{StatusAuthenticated, StatusUnauthenticated}, seen)
}

func TestBindLifecycle_TogglesAutoRefresh(t *testing.T) {
	auth := &fakeAuth{GetSessionRet: testSession("u1")}
	m := newManager(t, auth)

	n := lifecycle.NewNotifier()
	m.BindLifecycle(n)

	n.Notify(lifecycle.Background)
	n.Notify(lifecycle.Foreground)
	n.Notify(lifecycle.Background)

	require.Equal(t, 1, auth.StartCalls)
	require.Equal(t, 2, auth.StopCalls)

	// Session and state survive the toggles untouched.
	require.Equal(t, StatusAuthenticated, m.Current().Status())
}

func TestBindLifecycle_IndependentOfSessionState(t *testing.T) {
	auth := &fakeAuth{}
	m := newManager(t, auth)

	n := lifecycle.NewNotifier()
	m.BindLifecycle(n)
	n.Notify(lifecycle.Foreground)

	require.Equal(t, 1, auth.StartCalls)
	require.Equal(t, StatusUnauthenticated, m.Current().Status())
}

func TestState_SessionOnlyWhenAuthenticated(t *testing.T) {
	_, ok := Unauthenticated().Session()
	require.False(t, ok)
	_, ok = PendingVerification().Session()
	require.False(t, ok)

	require.Equal(t, StatusUnauthenticated, Authenticated(nil).Status())
}
