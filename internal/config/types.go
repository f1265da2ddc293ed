// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/codesubmit/codesubmit/internal/runtime"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultTimeout is the per-file limit when none is configured.
	DefaultTimeout = 10 * time.Second
	// DefaultReportFormat is the report format when none is configured.
	DefaultReportFormat = "text"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDuration is the sentinel error wrapped by InvalidDurationError.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidGlob is the sentinel error wrapped by InvalidGlobError.
	ErrInvalidGlob = errors.New("invalid glob pattern")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidDurationError is returned when a duration setting is negative.
	InvalidDurationError struct {
		Field string
		Value time.Duration
	}

	// InvalidGlobError is returned when a scan pattern does not parse.
	InvalidGlobError struct {
		Field   string
		Pattern string
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Execution ExecutionConfig `json:"execution" mapstructure:"execution"`
		Scan      ScanConfig      `json:"scan" mapstructure:"scan"`
		Report    ReportConfig    `json:"report" mapstructure:"report"`
		UI        UIConfig        `json:"ui" mapstructure:"ui"`
	}

	// ExecutionConfig controls how discovered files are run.
	ExecutionConfig struct {
		// Enabled gates execution (default: true)
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Timeout bounds each file's run; zero disables the limit (default: 10s)
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
		// Stdin is fed to each program in batch mode
		Stdin string `json:"stdin" mapstructure:"stdin"`
		// InputFile replaces Stdin when it names an existing file
		InputFile string `json:"input_file" mapstructure:"input_file"`
		// Interactive proxies the terminal to each program
		Interactive bool `json:"interactive" mapstructure:"interactive"`
		// DrainGrace bounds output draining after an interactive program exits (default: 2s)
		DrainGrace time.Duration `json:"drain_grace" mapstructure:"drain_grace"`
	}

	// ScanConfig filters discovered files with doublestar globs matched
	// against paths relative to the scan root.
	ScanConfig struct {
		Include []string `json:"include" mapstructure:"include"`
		Exclude []string `json:"exclude" mapstructure:"exclude"`
	}

	// ReportConfig selects the result encoder and destination.
	ReportConfig struct {
		// Format is one of text, json, yaml, toml, markdown (default: text)
		Format string `json:"format" mapstructure:"format"`
		// Output is the destination file; empty means standard output
		Output string `json:"output" mapstructure:"output"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Execution: ExecutionConfig{
			Enabled:    true,
			Timeout:    DefaultTimeout,
			DrainGrace: runtime.DefaultDrainGrace,
		},
		Scan: ScanConfig{
			Include: []string{},
			Exclude: []string{},
		},
		Report: ReportConfig{
			Format: DefaultReportFormat,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// RunConfig returns the engine settings for one batch.
func (c *Config) RunConfig() runtime.RunConfig {
	return runtime.RunConfig{
		Enabled:     c.Execution.Enabled,
		Timeout:     c.Execution.Timeout,
		StdinInput:  c.Execution.Stdin,
		InputFile:   c.Execution.InputFile,
		Interactive: c.Execution.Interactive,
	}
}

// IsValid returns whether the Config has valid fields.
// CUE validates config files; IsValid also covers values that arrive through
// environment variables and flags.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Execution.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Scan.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// IsValid returns whether the durations are non-negative.
func (c ExecutionConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Timeout < 0 {
		errs = append(errs, &InvalidDurationError{Field: "execution.timeout", Value: c.Timeout})
	}
	if c.DrainGrace < 0 {
		errs = append(errs, &InvalidDurationError{Field: "execution.drain_grace", Value: c.DrainGrace})
	}
	return len(errs) == 0, errs
}

// IsValid returns whether every pattern is a valid doublestar glob.
func (c ScanConfig) IsValid() (bool, []error) {
	var errs []error
	check := func(field string, patterns []string) {
		for _, p := range patterns {
			if strings.TrimSpace(p) == "" || !doublestar.ValidatePattern(p) {
				errs = append(errs, &InvalidGlobError{Field: field, Pattern: p})
			}
		}
	}
	check("scan.include", c.Include)
	check("scan.exclude", c.Exclude)
	return len(errs) == 0, errs
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface for InvalidDurationError.
func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("%s: invalid duration %s (must be zero or positive)", e.Field, e.Value)
}

// Unwrap returns ErrInvalidDuration for errors.Is() compatibility.
func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }

// Error implements the error interface for InvalidGlobError.
func (e *InvalidGlobError) Error() string {
	return fmt.Sprintf("%s: invalid glob pattern %q", e.Field, e.Pattern)
}

// Unwrap returns ErrInvalidGlob for errors.Is() compatibility.
func (e *InvalidGlobError) Unwrap() error { return ErrInvalidGlob }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the config sentinel and the field-level sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
