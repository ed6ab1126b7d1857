package models

import "errors"

// Sentinel errors shared by the stores, the service and the HTTP boundary.
var (
	// ErrNotFound: the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps every executor-level failure (connectivity, timeout,
	// constraint violation).
	ErrStorage = errors.New("storage failure")

	// ErrValidation: malformed input, rejected at the boundary.
	ErrValidation = errors.New("validation failed")
)
