// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ExitCodeAbnormal is the sentinel recorded when a child process did not exit on
// its own: it timed out, was killed, or never launched.
const ExitCodeAbnormal ExitCode = -1

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// The zero value (0) means success. ExitCodeAbnormal (-1) marks runs that
	// did not terminate normally.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is below ExitCodeAbnormal.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be >= %d)", e.Value, ExitCodeAbnormal)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid returns whether the ExitCode is either ExitCodeAbnormal or a
// non-negative process status, and a list of validation errors if it is not.
// Upper bounds are platform specific (Windows reports 32-bit codes), so only
// the lower bound is enforced.
func (c ExitCode) IsValid() (bool, []error) {
	if c < ExitCodeAbnormal {
		return false, []error{&InvalidExitCodeError{Value: c}}
	}
	return true, nil
}

// Validate returns the first validation error, or nil.
func (c ExitCode) Validate() error {
	if ok, errs := c.IsValid(); !ok {
		return errs[0]
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// IsAbnormal returns true if the process timed out, was killed, or failed to launch.
func (c ExitCode) IsAbnormal() bool { return c == ExitCodeAbnormal }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
