package sitesmith

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation before any
	// network call was made.
	ErrValidation = errors.New("validation error")

	// ErrBusy indicates a single-flight rule was violated: a generation
	// or an update proposal is already in flight.
	ErrBusy = errors.New("operation already in flight")

	// ErrNoPendingUpdate indicates Commit or Discard was called with no
	// pending update outstanding.
	ErrNoPendingUpdate = errors.New("no pending update")
)
