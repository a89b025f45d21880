package database

import "errors"

var (
	// ErrNotFound is returned when a requested run does not exist.
	ErrNotFound = errors.New("run not found")

	// ErrDatabaseMissing is returned by Open when the database must exist
	// but does not.
	ErrDatabaseMissing = errors.New("database not found")
)
