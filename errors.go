package dirwalker

import "errors"

// Sentinel errors returned by Walk. Every failure wraps exactly one of
// them, so callers distinguish error kinds with errors.Is.
var (
	// ErrIO indicates that an underlying filesystem call failed while
	// opening, reading, or canonicalizing a path.
	ErrIO = errors.New("filesystem operation failed")

	// ErrInvalidInput indicates that the root exists but could not be
	// located within its parent directory's listing.
	ErrInvalidInput = errors.New("invalid input")
)
