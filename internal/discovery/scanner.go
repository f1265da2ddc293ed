// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes lists path patterns that are never scanned, regardless of
// user-supplied patterns: VCS metadata, dependency caches and build output.
var DefaultExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/.venv/**",
	"**/target/**",
}

type (
	// Options configures a Scanner.
	Options struct {
		// Include restricts results to files matching at least one pattern.
		// An empty slice includes every file with a known language.
		Include []string
		// Exclude drops files matching any pattern. Merged with DefaultExcludes.
		Exclude []string
	}

	// Scanner walks roots and produces SourceFiles in deterministic order.
	Scanner struct {
		include []string
		exclude []string
	}
)

// NewScanner validates the glob patterns and returns a Scanner.
func NewScanner(opts Options) (*Scanner, error) {
	exclude := make([]string, 0, len(DefaultExcludes)+len(opts.Exclude))
	exclude = append(exclude, DefaultExcludes...)
	exclude = append(exclude, opts.Exclude...)

	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	return &Scanner{include: opts.Include, exclude: exclude}, nil
}

// Scan walks each root in order. A root that is a file is reported directly
// when its language is known; directory roots are walked recursively with
// include/exclude filtering. A file reachable from several roots is reported once.
//
// Unreadable roots and entries produce diagnostics, not errors; the only
// error is context cancellation.
func (s *Scanner) Scan(ctx context.Context, roots ...string) (Result, error) {
	var res Result
	seen := make(map[string]bool)

	add := func(sf SourceFile) {
		if seen[sf.Path] {
			return
		}
		seen[sf.Path] = true
		res.Files = append(res.Files, sf)
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("scan canceled: %w", err)
		}

		absRoot, err := filepath.Abs(root)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, newDiagnostic(SeverityError, CodeRootUnreadable,
				"failed to resolve scan root", root, err))
			continue
		}

		info, err := os.Stat(absRoot)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, newDiagnostic(SeverityError, CodeRootUnreadable,
				"scan root is not accessible", root, err))
			continue
		}

		if !info.IsDir() {
			if sf, ok := NewSourceFile(filepath.Dir(absRoot), absRoot); ok {
				add(sf)
			}
			continue
		}

		walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				res.Diagnostics = append(res.Diagnostics, newDiagnostic(SeverityWarning, CodeEntryUnreadable,
					"skipping unreadable entry", path, err))
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			sf, ok := NewSourceFile(absRoot, path)
			if !ok || !s.matches(sf.RelPath) {
				return nil
			}
			add(sf)
			return nil
		})
		if walkErr != nil {
			return res, fmt.Errorf("scan canceled: %w", walkErr)
		}
	}

	return res, nil
}

// Matches reports whether a slash-separated path relative to a scan root
// names a source file the scanner would report.
func (s *Scanner) Matches(rel string) bool {
	if _, ok := DetectLanguage(rel); !ok {
		return false
	}
	return s.matches(rel)
}

// matches reports whether a slash-separated relative path passes the
// include and exclude filters.
func (s *Scanner) matches(rel string) bool {
	for _, p := range s.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	if len(s.include) == 0 {
		return true
	}
	for _, p := range s.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
