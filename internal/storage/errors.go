package storage

import "errors"

// Storage errors shared by all backends.
var (
	// ErrNotFound is returned when a requested record does not exist
	// or has aged past the caller's freshness bound.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting into an append-only
	// store with a key that already exists.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
