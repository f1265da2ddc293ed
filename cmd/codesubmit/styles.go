// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/codesubmit/codesubmit/internal/report"
)

// Color palette, shared with the text report.
const (
	// ColorPrimary is purple - used for titles and headers.
	ColorPrimary = report.ColorPrimary

	// ColorMuted is gray - used for secondary text.
	ColorMuted = report.ColorMuted

	// ColorSuccess is green - used for checkmarks and passing results.
	ColorSuccess = report.ColorSuccess

	// ColorError is red - used for failures.
	ColorError = report.ColorError

	// ColorWarning is amber - used for warnings.
	ColorWarning = report.ColorWarning

	// ColorHighlight is blue - used for commands and paths.
	ColorHighlight = report.ColorHighlight

	// ColorVerbose is light gray - used for supplementary details.
	ColorVerbose = report.ColorVerbose
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command lines and config keys.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for supplementary information.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	// VerboseHighlightStyle is for emphasized labels within verbose output.
	VerboseHighlightStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight)
)
