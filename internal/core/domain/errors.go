package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotInitialized indicates a store was used before it was opened.
	// This is a fatal precondition failure, not a retryable condition.
	ErrNotInitialized = errors.New("store not initialized")

	// ErrUnsupportedType indicates an unknown reference or anchor kind.
	ErrUnsupportedType = errors.New("unsupported type")
)
