// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is a user-facing error: what was being attempted, on what,
	// why it failed, and how to fix it. When IssueID is set, the CLI can render
	// the matching Issue as extended guidance.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load configuration").
	//		WithResource("./codesubmit.cue").
	//		WithSuggestion("Run 'codesubmit config dump' to see the effective values").
	//		WithIssue(issue.ConfigLoadFailedId).
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load configuration" or "write report".
		Operation string
		// Resource is the file, path or entity involved (optional).
		Resource string
		// Suggestions are short fixes shown under the message (optional).
		Suggestions []string
		// IssueID links to extended Markdown guidance (optional).
		IssueID Id
		// Cause is the underlying error (optional).
		Cause error
	}

	// ErrorContext builds an ActionableError incrementally.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns the one-line form: "failed to <operation>: <resource>: <cause>".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// HasSuggestions reports whether the error carries any suggestions.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// Format renders the error with its suggestions as a bullet list. In verbose
// mode the full cause chain follows.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if e.HasSuggestions() {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&b, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return b.String()
}

// WithOperation sets the operation being performed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends a suggestion.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, sug)
	return c
}

// WithIssue links the error to extended guidance.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.IssueID = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	built := c.err
	built.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &built
}

// BuildError is Build returned as an error; a nil result stays a nil interface.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}

// GuidanceFor returns the Issue linked from the first ActionableError in err's
// chain, if any.
func GuidanceFor(err error) (*Issue, bool) {
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.IssueID == 0 {
		return nil, false
	}
	is := Get(ae.IssueID)
	return is, is != nil
}
