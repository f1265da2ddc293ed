// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types shared by the discovery,
// runtime and reporting packages. These are foundation types that carry
// semantic meaning and validation but have no domain-specific dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// Known language names. The values match what discovery reports and what
// appears in result documents.
const (
	LanguagePython     Language = "Python"
	LanguageJava       Language = "Java"
	LanguageJavaScript Language = "JavaScript"
	LanguageRuby       Language = "Ruby"
	LanguageGo         Language = "Go"
	LanguageShell      Language = "Shell"
	LanguageC          Language = "C"
	LanguageCPP        Language = "C++"
)

// ErrInvalidLanguage is the sentinel error wrapped by InvalidLanguageError.
var ErrInvalidLanguage = errors.New("invalid language")

type (
	// Language is the detected language name of a source file.
	// Any non-blank name is valid; a language without a configured runner is
	// simply not runnable.
	Language string

	// InvalidLanguageError is returned when a Language value is empty or
	// whitespace-only.
	InvalidLanguageError struct {
		Value Language
	}
)

// String returns the string representation of the Language.
func (l Language) String() string { return string(l) }

// IsValid returns whether the Language is non-blank.
func (l Language) IsValid() (bool, []error) {
	if strings.TrimSpace(string(l)) == "" {
		return false, []error{&InvalidLanguageError{Value: l}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLanguageError.
func (e *InvalidLanguageError) Error() string {
	return fmt.Sprintf("invalid language %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidLanguage for errors.Is() compatibility.
func (e *InvalidLanguageError) Unwrap() error { return ErrInvalidLanguage }
