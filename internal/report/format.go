// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"
	"fmt"
	"strings"
)

// Supported report formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatMarkdown Format = "markdown"
)

// ErrUnknownReportFormat is the sentinel error wrapped by UnknownFormatError.
var ErrUnknownReportFormat = errors.New("unknown report format")

type (
	// Format names a report encoder.
	Format string

	// UnknownFormatError is returned when a format name is not recognized.
	UnknownFormatError struct {
		Value string
	}
)

// Formats returns the supported formats in display order.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatTOML, FormatMarkdown}
}

// ParseFormat parses a format name case-insensitively. "md" and "yml" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatTOML, FormatMarkdown:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", &UnknownFormatError{Value: s}
	}
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Error implements the error interface.
func (e *UnknownFormatError) Error() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("unknown report format %q (valid: %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrUnknownReportFormat so callers can use errors.Is for programmatic detection.
func (e *UnknownFormatError) Unwrap() error { return ErrUnknownReportFormat }
