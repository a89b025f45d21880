package session

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned when the username or password is empty.
	ErrMissingCredential = errors.New("missing credential")

	// ErrAuthTimeout is returned when the login interaction ran out of time.
	ErrAuthTimeout = errors.New("authentication timed out")

	// ErrAuthNavigation is returned when the login or logout page could not
	// be driven.
	ErrAuthNavigation = errors.New("authentication navigation failed")
)

// AuthErrorKind classifies an AuthError.
type AuthErrorKind int

const (
	// KindMissingCredential means the username or password was not supplied.
	KindMissingCredential AuthErrorKind = iota
	// KindTimeout means a wait on the login page exceeded its deadline.
	KindTimeout
	// KindNavigation means the browser failed to load or drive a page.
	KindNavigation
)

// String returns the kind name.
func (k AuthErrorKind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing credential"
	case KindTimeout:
		return "timeout"
	case KindNavigation:
		return "navigation"
	default:
		return "unknown"
	}
}

// AuthError reports a failed login or logout.
type AuthError struct {
	Kind AuthErrorKind
	// Field names the missing credential for KindMissingCredential.
	Field string
	// Step is the interaction step that failed, e.g. "wait for username field".
	Step string
	Err  error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	switch e.Kind {
	case KindMissingCredential:
		return fmt.Sprintf("login: %s is required", e.Field)
	default:
		if e.Err == nil {
			return fmt.Sprintf("login: %s: %s", e.Step, e.Kind)
		}
		return fmt.Sprintf("login: %s: %s: %v", e.Step, e.Kind, e.Err)
	}
}

// Unwrap returns the kind sentinel and the underlying error.
func (e *AuthError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case KindMissingCredential:
		sentinel = ErrMissingCredential
	case KindTimeout:
		sentinel = ErrAuthTimeout
	default:
		sentinel = ErrAuthNavigation
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}
