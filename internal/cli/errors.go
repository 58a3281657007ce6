package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrFileNotFound indicates a specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrMissingField indicates a required flag or argument was left empty.
	ErrMissingField = errors.New("required value missing")
)
