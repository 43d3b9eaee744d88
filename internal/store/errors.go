package store

import "errors"

var (
	// ErrNotFound is returned when a referenced lineage node does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps persistence-layer failures. Callers retry via the
	// engine's sweep rather than treating it as fatal.
	ErrStorage = errors.New("storage error")
)
