package store

import "errors"

// Domain-specific errors for configuration persistence.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrOpenFailed is returned when the store file cannot be opened.
	ErrOpenFailed = errors.New("store: open failed")

	// ErrCorruptRecord marks a persisted record that failed an integrity
	// check. Load never surfaces it; callers see absent instead.
	ErrCorruptRecord = errors.New("store: corrupt config record")

	// ErrIncompleteConfig is returned when Save is given a configuration
	// with missing required fields.
	ErrIncompleteConfig = errors.New("store: config record incomplete")

	// ErrPersistFailed is returned when a write or erase fails at the
	// storage layer.
	ErrPersistFailed = errors.New("store: persist failed")
)
