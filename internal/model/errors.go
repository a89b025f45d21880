package model

import "errors"

var (
	// ErrUnknownCategory is returned when a category id is not one of the
	// four scored categories.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownFormFactor is returned when a form factor is neither mobile nor desktop.
	ErrUnknownFormFactor = errors.New("unknown form factor")
)
