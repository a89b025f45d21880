package appclient

import "errors"

var (
	// ErrUnexpectedStatus is returned when an endpoint answers with a status
	// the caller did not expect.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrNoCSRFToken is returned when the login form has no CSRF token.
	ErrNoCSRFToken = errors.New("no csrf token in login form")

	// ErrLoginFailed is returned when the application rejected the credentials.
	ErrLoginFailed = errors.New("login failed")

	// ErrNotAuthenticated is returned when an endpoint redirected to the
	// login page.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidEnvelope is returned when a JSON response is not a valid
	// rewrite envelope.
	ErrInvalidEnvelope = errors.New("invalid rewrite envelope")
)
