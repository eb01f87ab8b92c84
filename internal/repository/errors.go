package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an insert collides with an existing
	// record, e.g. a second open session for the same subject.
	ErrConflict = errors.New("conflict")

	// ErrSessionClosed is returned when an update targets a session whose
	// end time is already set.
	ErrSessionClosed = errors.New("session already stopped")
)
