// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownString returns the Markdown source for a batch.
func MarkdownString(b Batch) string {
	doc := b.Document()
	var sb strings.Builder

	fmt.Fprintf(&sb, "# codesubmit report\n\n")
	fmt.Fprintf(&sb, "- **Batch:** `%s`\n", doc.BatchID)
	fmt.Fprintf(&sb, "- **Started:** %s\n\n", doc.StartedAt.Format("2006-01-02 15:04:05 MST"))

	sb.WriteString("| File | Language | Status | Exit code | Duration |\n")
	sb.WriteString("|------|----------|--------|-----------|----------|\n")
	for _, f := range doc.Files {
		if f.Result == nil {
			fmt.Fprintf(&sb, "| `%s` | %s | skipped | | |\n", f.Path, f.Language)
			continue
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %d | %.2fs |\n",
			f.Path, f.Language, markdownStatus(f), f.Result.ExitCode, f.Result.Duration)
	}

	s := doc.Summary
	fmt.Fprintf(&sb, "\n**%d passed**, **%d failed**, %d timed out, %d skipped of %d.\n",
		s.Passed, s.Failed, s.TimedOut, s.Skipped, s.Total)

	for _, f := range doc.Files {
		if f.Result == nil || (f.Result.Stdout == "" && f.Result.Stderr == "") {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", f.Path)
		if f.Result.Command != "" {
			fmt.Fprintf(&sb, "`%s`\n\n", f.Result.Command)
		}
		writeFence(&sb, "stdout", f.Result.Stdout)
		writeFence(&sb, "stderr", f.Result.Stderr)
	}
	return sb.String()
}

func markdownStatus(f FileEntry) string {
	switch {
	case f.Result.TimedOut:
		return "⏱ timed out"
	case f.Result.ExitCode == 0:
		return "✅ passed"
	default:
		return "❌ failed"
	}
}

// writeFence emits a fenced block long enough to contain any backtick run in text.
func writeFence(sb *strings.Builder, label, text string) {
	if text == "" {
		return
	}
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	fmt.Fprintf(sb, "**%s**\n\n%s\n%s\n%s\n\n", label, fence, strings.TrimRight(text, "\n"), fence)
}

func writeMarkdown(w io.Writer, b Batch, opts Options) error {
	md := MarkdownString(b)
	if opts.GlamourStyle != "" {
		out, err := glamour.Render(md, opts.GlamourStyle)
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		md = out
	}
	_, err := io.WriteString(w, md)
	return err
}
