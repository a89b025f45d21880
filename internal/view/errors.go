package view

import (
	"errors"
	"fmt"
)

var (
	// ErrViewNotFound is returned when a view name is not in the catalog.
	ErrViewNotFound = errors.New("view not found")

	// ErrDuplicateView is returned when a catalog is built with two views
	// of the same name.
	ErrDuplicateView = errors.New("duplicate view name")

	// ErrEmptyViewName is returned when a catalog entry has no name.
	ErrEmptyViewName = errors.New("view name is empty")

	// ErrMissingParameter is returned when a path template needs a
	// placeholder value that was not supplied.
	ErrMissingParameter = errors.New("missing placeholder value")

	// ErrUnknownPlaceholder is returned when a path template contains a
	// "<...>" token that is not a known placeholder.
	ErrUnknownPlaceholder = errors.New("unknown placeholder")

	// ErrInvalidBaseURL is returned when the base URL is not absolute.
	ErrInvalidBaseURL = errors.New("base URL must be absolute")
)

// MissingParameterError reports which placeholder had no value.
// It matches ErrMissingParameter with errors.Is.
type MissingParameterError struct {
	// Placeholder is the placeholder that could not be resolved.
	Placeholder Placeholder
	// View is the name of the view being resolved, if known.
	View string
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	if e.View == "" {
		return fmt.Sprintf("missing value for %s", e.Placeholder.Token())
	}
	return fmt.Sprintf("view %q: missing value for %s", e.View, e.Placeholder.Token())
}

// Unwrap returns ErrMissingParameter.
func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}
