// Package common defines the shared error taxonomy used across the client
// core and the backend adapters. Callers match sentinels with errors.Is and
// classify failures with KindOf.
package common

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for reporting and metrics.
type Kind string

const (
	// KindAuth covers bad credentials and unverified accounts.
	KindAuth Kind = "auth"
	// KindNotFound marks an absent profile row. Not a failure.
	KindNotFound Kind = "not_found"
	// KindStore covers relational read/write failures other than not-found.
	KindStore Kind = "store"
	// KindTransfer covers object-store read/write failures.
	KindTransfer Kind = "transfer"
	// KindValidation marks an operation rejected before reaching the backend,
	// e.g. invoked without a session or with malformed fields.
	KindValidation Kind = "validation"
)

var (
	// Repository-level sentinels.
	ErrNotFound = errors.New("not found")

	// Auth sentinels.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrUserExists         = errors.New("user already exists")
	ErrTokenExpired       = errors.New("token expired")
	ErrRefreshExpired     = errors.New("refresh token expired")

	// Session sentinels.
	ErrNoSession = errors.New("no active session")
)

// Error carries a taxonomy kind alongside the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind and operation name.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the taxonomy kind from err, unwrapping as needed.
// Errors produced outside the taxonomy report KindStore as the conservative
// default for persistence-layer surprises.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	return KindStore
}

// IsNotFound reports whether err represents the absent-row outcome.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}
