package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrKeyNotFound is returned by Storage.Get when the key has never been
	// written.
	ErrKeyNotFound = errors.New("storage key not found")

	// ErrNotPermitted marks operations rejected by policy rather than by data
	// integrity, e.g. removing a protected tag.
	ErrNotPermitted = errors.New("operation not permitted")
)

// ValidationError reports a write rejected before any state mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
