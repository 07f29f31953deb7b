// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Exit statuses of the chef CLI.
const (
	// ExitOK reports success.
	ExitOK ExitCode = 0
	// ExitFailure is the generic failure status.
	ExitFailure ExitCode = 1
	// ExitUsage reports bad flags or arguments.
	ExitUsage ExitCode = 2
	// ExitNotFound reports a recipe or collection that does not exist.
	ExitNotFound ExitCode = 3
	// ExitCheckFailed reports a collection check that found problems.
	ExitCheckFailed ExitCode = 4
	// ExitConfig reports an unreadable or invalid configuration.
	ExitConfig ExitCode = 78
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }

// Describe returns a short label for the named statuses and the bare
// number for any other code.
func (c ExitCode) Describe() string {
	switch c {
	case ExitOK:
		return "ok"
	case ExitFailure:
		return "failure"
	case ExitUsage:
		return "usage error"
	case ExitNotFound:
		return "not found"
	case ExitCheckFailed:
		return "check failed"
	case ExitConfig:
		return "configuration error"
	default:
		return c.String()
	}
}
