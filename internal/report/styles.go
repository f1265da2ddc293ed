// SPDX-License-Identifier: MPL-2.0

package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Report palette. Shared with the CLI so tables and messages match.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
	ColorVerbose   = lipgloss.Color("#9CA3AF")
)

// textStyles holds the styles used by the text report, bound to one renderer
// so color output follows the destination writer rather than os.Stdout.
type textStyles struct {
	title   lipgloss.Style
	path    lipgloss.Style
	muted   lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	timeout lipgloss.Style
	skip    lipgloss.Style
	command lipgloss.Style
	label   lipgloss.Style
	body    lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:   r.NewStyle().Bold(true).Foreground(ColorPrimary),
		path:    r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(ColorMuted),
		pass:    r.NewStyle().Foreground(ColorSuccess),
		fail:    r.NewStyle().Bold(true).Foreground(ColorError),
		timeout: r.NewStyle().Foreground(ColorWarning),
		skip:    r.NewStyle().Foreground(ColorMuted),
		command: r.NewStyle().Foreground(ColorHighlight),
		label:   r.NewStyle().Bold(true).Foreground(ColorWarning),
		body:    r.NewStyle().Foreground(ColorVerbose).PaddingLeft(6),
	}
}
