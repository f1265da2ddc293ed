// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeout is the sentinel error wrapped by InvalidTimeoutError.
var ErrInvalidTimeout = errors.New("invalid timeout")

type (
	// RunConfig holds the execution settings for one batch.
	RunConfig struct {
		// Enabled gates execution. When false no file is launched.
		Enabled bool
		// Timeout bounds each file's run. Zero means no limit.
		Timeout time.Duration
		// StdinInput is fed to the child in batch mode when InputFile is unset or missing.
		StdinInput string
		// InputFile names a file whose contents are fed to the child in batch mode.
		InputFile string
		// Interactive proxies the terminal to the child instead of feeding fixed input.
		Interactive bool
	}

	// InvalidTimeoutError is returned when a RunConfig carries a negative timeout.
	InvalidTimeoutError struct {
		Value time.Duration
	}
)

// Error implements the error interface.
func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("invalid timeout %s (must be zero or positive)", e.Value)
}

// Unwrap returns ErrInvalidTimeout so callers can use errors.Is for programmatic detection.
func (e *InvalidTimeoutError) Unwrap() error { return ErrInvalidTimeout }

// IsValid returns whether the RunConfig is usable, and the validation errors if not.
// The engine itself treats a non-positive timeout as "no limit"; IsValid is the
// stricter check applied to user configuration.
func (c RunConfig) IsValid() (bool, []error) {
	if c.Timeout < 0 {
		return false, []error{&InvalidTimeoutError{Value: c.Timeout}}
	}
	return true, nil
}

// HasTimeout reports whether a per-file timeout applies.
func (c RunConfig) HasTimeout() bool { return c.Timeout > 0 }

// batchInput returns the bytes fed to a batch-mode child: the contents of
// InputFile when it names a readable file, else StdinInput.
func (c RunConfig) batchInput(readFile func(string) ([]byte, error)) []byte {
	if c.InputFile != "" {
		if data, err := readFile(c.InputFile); err == nil {
			return data
		}
	}
	return []byte(c.StdinInput)
}
