package session

import "profilesync/internal/backend"

// Status enumerates the authentication states.
type Status int

const (
	// StatusUnauthenticated means no session exists.
	StatusUnauthenticated Status = iota
	// StatusPendingVerification means sign-up succeeded but the user must
	// confirm their email before a session can exist.
	StatusPendingVerification
	// StatusAuthenticated means a session exists.
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusPendingVerification:
		return "pending_verification"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is a tagged variant over the three authentication states. A session
// value is carried only in the Authenticated state, so a profile operation
// can never observe a session outside of it.
type State struct {
	status  Status
	session *backend.Session
}

// Unauthenticated returns the no-session state.
func Unauthenticated() State {
	return State{status: StatusUnauthenticated}
}

// PendingVerification returns the awaiting-email-confirmation state.
func PendingVerification() State {
	return State{status: StatusPendingVerification}
}

// Authenticated returns the signed-in state. A nil session degrades to
// Unauthenticated rather than producing an illegal Authenticated-without-
// session value.
func Authenticated(s *backend.Session) State {
	if s == nil {
		return Unauthenticated()
	}
	return State{status: StatusAuthenticated, session: s}
}

// Status returns the variant tag.
func (s State) Status() Status {
	return s.status
}

// Session returns the current session. ok is true only in the
// Authenticated state.
func (s State) Session() (sess *backend.Session, ok bool) {
	if s.status != StatusAuthenticated {
		return nil, false
	}
	return s.session, true
}
