// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "zero is valid", value: 0, wantValid: true},
		{name: "one is valid", value: 1, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "windows status is valid", value: 3221225477, wantValid: true},
		{name: "abnormal sentinel is valid", value: ExitCodeAbnormal, wantValid: true},
		{name: "below sentinel is invalid", value: -2, wantValid: false},
		{name: "large negative is invalid", value: -1000, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if tt.wantValid {
				if err != nil {
					t.Errorf("ExitCode(%d).Validate() returned error for valid value: %v", tt.value, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ExitCode(%d).Validate() returned nil for invalid value", tt.value)
			}
			if !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
			var ecErr *InvalidExitCodeError
			if !errors.As(err, &ecErr) || ecErr.Value != tt.value {
				t.Errorf("error should be *InvalidExitCodeError carrying %d, got %v", tt.value, err)
			}
		})
	}
}

func TestExitCodePredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code        ExitCode
		wantSuccess bool
		wantAbn     bool
	}{
		{0, true, false},
		{1, false, false},
		{255, false, false},
		{ExitCodeAbnormal, false, true},
	}

	for _, tt := range tests {
		if got := tt.code.IsSuccess(); got != tt.wantSuccess {
			t.Errorf("ExitCode(%d).IsSuccess() = %v, want %v", tt.code, got, tt.wantSuccess)
		}
		if got := tt.code.IsAbnormal(); got != tt.wantAbn {
			t.Errorf("ExitCode(%d).IsAbnormal() = %v, want %v", tt.code, got, tt.wantAbn)
		}
	}
}

func TestExitCodeString(t *testing.T) {
	t.Parallel()

	if got := ExitCode(42).String(); got != "42" {
		t.Errorf("ExitCode(42).String() = %q, want %q", got, "42")
	}
	if got := ExitCodeAbnormal.String(); got != "-1" {
		t.Errorf("ExitCodeAbnormal.String() = %q, want %q", got, "-1")
	}
}
