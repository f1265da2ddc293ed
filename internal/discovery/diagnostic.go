// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeRootUnreadable is reported when a scan root cannot be stat'ed.
	CodeRootUnreadable = "root_unreadable"
	// CodeEntryUnreadable is reported when a directory entry cannot be read during the walk.
	CodeEntryUnreadable = "entry_unreadable"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "root_unreadable").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// Result bundles the discovered files with diagnostics produced during the scan.
	Result struct {
		Files       []SourceFile
		Diagnostics []Diagnostic
	}
)

func newDiagnostic(sev Severity, code, msg, path string, cause error) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Message: msg, Path: path, Cause: cause}
}
