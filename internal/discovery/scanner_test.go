// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/codesubmit/codesubmit/internal/testutil"
	"github.com/codesubmit/codesubmit/pkg/types"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		testutil.MustMkdirAll(t, filepath.Dir(p), 0o755)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
}

func relPaths(files []SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestScan_DirectoryOrderAndLanguages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"b/Main.java",
		"a.py",
		"notes.txt",
		"a/z.rb",
		".git/hooks/pre-commit.sh",
		"node_modules/pkg/index.js",
	)

	s, err := NewScanner(Options{})
	if err != nil {
		t.Fatalf("NewScanner() error: %v", err)
	}
	res, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	want := []string{"a/z.rb", "a.py", "b/Main.java"}
	if got := relPaths(res.Files); !slices.Equal(got, want) {
		t.Fatalf("Scan() rel paths = %v, want %v", got, want)
	}

	wantLang := []types.Language{types.LanguageRuby, types.LanguagePython, types.LanguageJava}
	for i, f := range res.Files {
		if f.Language != wantLang[i] {
			t.Errorf("file %s language = %q, want %q", f.RelPath, f.Language, wantLang[i])
		}
		if !filepath.IsAbs(f.Path) {
			t.Errorf("file %s path %q is not absolute", f.RelPath, f.Path)
		}
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
}

func TestScan_IncludeExclude(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "src/a.py", "src/b.py", "src/gen/c.py", "tools/d.py")

	s, err := NewScanner(Options{
		Include: []string{"src/**/*.py"},
		Exclude: []string{"**/gen/**"},
	})
	if err != nil {
		t.Fatalf("NewScanner() error: %v", err)
	}
	res, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	want := []string{"src/a.py", "src/b.py"}
	if got := relPaths(res.Files); !slices.Equal(got, want) {
		t.Errorf("Scan() rel paths = %v, want %v", got, want)
	}
}

func TestScan_FileRootAndDedup(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, "one.py", "two.java")
	file := filepath.Join(root, "one.py")

	s, err := NewScanner(Options{})
	if err != nil {
		t.Fatalf("NewScanner() error: %v", err)
	}
	res, err := s.Scan(context.Background(), file, root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	want := []string{"one.py", "two.java"}
	if got := relPaths(res.Files); !slices.Equal(got, want) {
		t.Errorf("Scan() rel paths = %v, want %v", got, want)
	}
}

func TestScan_MissingRootIsDiagnostic(t *testing.T) {
	t.Parallel()

	s, err := NewScanner(Options{})
	if err != nil {
		t.Fatalf("NewScanner() error: %v", err)
	}
	res, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("expected no files, got %v", res.Files)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != CodeRootUnreadable {
		t.Errorf("expected one %s diagnostic, got %v", CodeRootUnreadable, res.Diagnostics)
	}
}

func TestScan_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewScanner(Options{})
	if err != nil {
		t.Fatalf("NewScanner() error: %v", err)
	}
	if _, err := s.Scan(ctx, t.TempDir()); err == nil {
		t.Error("Scan() with canceled context returned nil error")
	}
}

func TestNewScanner_BadPattern(t *testing.T) {
	t.Parallel()

	if _, err := NewScanner(Options{Include: []string{"src/[a-"}}); err == nil {
		t.Error("NewScanner() accepted a malformed pattern")
	}
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   types.Language
		wantOK bool
	}{
		{"main.py", types.LanguagePython, true},
		{"Main.JAVA", types.LanguageJava, true},
		{"app.mjs", types.LanguageJavaScript, true},
		{"prog.cc", types.LanguageCPP, true},
		{"README", "", false},
		{"data.json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := DetectLanguage(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DetectLanguage(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestScanner_Matches(t *testing.T) {
	t.Parallel()

	s, err := NewScanner(Options{Include: []string{"src/**"}, Exclude: []string{"**/gen_*"}})
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}

	tests := []struct {
		rel  string
		want bool
	}{
		{rel: "src/main.py", want: true},
		{rel: "src/deep/App.java", want: true},
		{rel: "src/notes.txt", want: false},
		{rel: "src/gen_stub.py", want: false},
		{rel: "other/main.py", want: false},
		{rel: "src/.git/hooks/pre.sh", want: false},
	}
	for _, tt := range tests {
		if got := s.Matches(tt.rel); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}
