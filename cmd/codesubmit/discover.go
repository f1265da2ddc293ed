// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/codesubmit/codesubmit/internal/config"
	"github.com/codesubmit/codesubmit/internal/discovery"
	"github.com/codesubmit/codesubmit/internal/issue"
)

// scanRoots returns the positional paths, defaulting to the working directory.
func scanRoots(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

// newScanner builds a discovery scanner from the scan settings.
func newScanner(cfg config.ScanConfig) (*discovery.Scanner, error) {
	scanner, err := discovery.NewScanner(discovery.Options{Include: cfg.Include, Exclude: cfg.Exclude})
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("build file filter").
			WithSuggestion("Check the --include and --exclude patterns").
			WithIssue(issue.InvalidGlobPatternId).
			Wrap(err).
			BuildError()
	}
	return scanner, nil
}

// discoverFiles scans roots, logs diagnostics and fails when nothing runnable was found.
func discoverFiles(ctx context.Context, scanner *discovery.Scanner, roots []string, logger *log.Logger) ([]discovery.SourceFile, error) {
	res, err := scanner.Scan(ctx, roots...)
	if err != nil {
		return nil, err
	}

	for _, d := range res.Diagnostics {
		kv := []any{"path", d.Path, "code", d.Code}
		if d.Cause != nil {
			kv = append(kv, "err", d.Cause)
		}
		if d.Severity == discovery.SeverityError {
			logger.Error(d.Message, kv...)
		} else {
			logger.Warn(d.Message, kv...)
		}
	}

	if len(res.Files) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("discover source files").
			WithResource(strings.Join(roots, ", ")).
			WithSuggestion("Check that the paths contain files with a supported extension").
			WithSuggestion("Run 'codesubmit scan' to see what is discovered").
			WithIssue(issue.NoSourceFilesId).
			Wrap(errors.New("no source files found")).
			BuildError()
	}
	logger.Debug("Discovered source files", "count", len(res.Files))
	return res.Files, nil
}
