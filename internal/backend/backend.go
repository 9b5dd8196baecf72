// Package backend declares the contract of the remote backend consumed by
// the client core: token-based authentication with session persistence and
// change notifications. The relational and object-store contracts live next
// to their consumers (profile.Repository, avatar.ObjectStore); this package
// holds only the auth surface and the shared session types.
package backend

import (
	"context"
	"time"
)

// User is the authenticated identity attached to a session.
type User struct {
	ID    string
	Email string
}

// Session is an opaque access/refresh token pair plus the authenticated user
// and the access token expiry. Sessions are minted and owned by the auth
// backend; everything else treats them as read-only.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         User
	ExpiresAt    time.Time
}

// Expired reports whether the access token expiry has passed at the given
// instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// AuthEvent labels an auth-change notification.
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "signed_in"
	EventSignedOut      AuthEvent = "signed_out"
	EventTokenRefreshed AuthEvent = "token_refreshed"
)

// AuthClient is the token-authentication service.
//
// Contract:
//   - SignInWithPassword: verify credentials and mint a session.
//   - SignUp: create an account; a nil session with a nil error means the
//     account needs email confirmation before a session can exist.
//   - SignOut: destroy the persisted session. Safe to call without one.
//   - GetSession: return the persisted session, or nil when none exists.
//   - OnAuthStateChange: register a listener for asynchronous session
//     changes (refresh, expiry, sign-out from elsewhere). The returned
//     function unregisters it.
//   - StartAutoRefresh / StopAutoRefresh: toggle background token renewal.
//     Both are idempotent and independent of whether a session exists.
type AuthClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(fn func(event AuthEvent, s *Session)) (unsubscribe func())
	StartAutoRefresh()
	StopAutoRefresh()
}
