package build

import (
	"errors"
	"fmt"
)

// ErrInvalidTarget is returned when a build target specification is
// malformed or duplicated.
var ErrInvalidTarget = errors.New("invalid build target")

// ErrBuildFailed marks an isolated per-target build failure. It is recorded
// in the target's Result and never cancels sibling targets.
var ErrBuildFailed = errors.New("build failed")

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
