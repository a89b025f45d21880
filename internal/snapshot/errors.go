package snapshot

import "errors"

var (
	// ErrCapture is returned when a page could not be opened or read.
	ErrCapture = errors.New("snapshot capture failed")

	// ErrParse is returned when saved HTML cannot be analysed.
	ErrParse = errors.New("snapshot parse failed")
)
