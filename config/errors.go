// Sentinel errors for configuration and project precondition failures.
// All errors can be checked using errors.Is().
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when the configuration is missing required
// values or contains malformed ones.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrMissingManifest is returned when the project's dependency manifest
// cannot be found. This is a fatal precondition failure: no build runs.
var ErrMissingManifest = errors.New("dependency manifest not found")

// ErrMissingEntrypoint is returned when the project has no buildable
// entrypoint. This is a fatal precondition failure: no build runs.
var ErrMissingEntrypoint = errors.New("entrypoint not found")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
