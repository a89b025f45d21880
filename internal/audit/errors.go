package audit

import (
	"errors"
	"fmt"

	"github.com/nao1215/viewaudit/internal/model"
)

var (
	// ErrEngineInvocation is returned when the audit engine could not be run
	// or did not produce a usable result.
	ErrEngineInvocation = errors.New("audit engine invocation failed")

	// ErrRuntime is returned when the engine ran but reported a runtime
	// error for the page, e.g. the page failed to load.
	ErrRuntime = errors.New("audit runtime error")

	// ErrMalformedResult is returned when the engine's JSON result cannot
	// be interpreted.
	ErrMalformedResult = errors.New("malformed audit result")
)

// EngineError describes a failed audit of one view with one form factor.
type EngineError struct {
	View       string
	FormFactor model.FormFactor
	Err        error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("audit %s (%s): %v", e.View, e.FormFactor, e.Err)
}

// Unwrap returns ErrEngineInvocation and the underlying error.
func (e *EngineError) Unwrap() []error {
	return []error{ErrEngineInvocation, e.Err}
}
