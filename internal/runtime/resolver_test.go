// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"slices"
	"testing"

	"github.com/codesubmit/codesubmit/pkg/types"
)

func lookPathOnly(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		if slices.Contains(names, name) {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	r := NewResolver(WithLookPath(lookPathOnly("python3")))

	tests := []struct {
		lang types.Language
		want Command
	}{
		{types.LanguagePython, Command{"python3", "-u", "/src/a.py"}},
		{types.LanguageJava, Command{"java", "/src/a.py"}},
		{types.LanguageJavaScript, Command{"node", "/src/a.py"}},
		{types.LanguageRuby, Command{"ruby", "/src/a.py"}},
		{types.LanguageGo, Command{"go", "run", "/src/a.py"}},
		{types.LanguageShell, Command{"sh", "/src/a.py"}},
		{types.LanguageCPP, nil},
		{types.Language("COBOL"), nil},
		{types.Language(""), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			t.Parallel()
			got := r.Resolve("/src/a.py", tt.lang)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Resolve(%q) = %q, want %q", tt.lang, got, tt.want)
			}
			if tt.want == nil && !got.IsEmpty() {
				t.Errorf("Resolve(%q) should be the empty command", tt.lang)
			}
		})
	}
}

func TestResolver_PythonFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		found []string
		want  string
	}{
		{"python3 preferred", []string{"python3", "python"}, "python3"},
		{"python only", []string{"python"}, "python"},
		{"neither defaults to python3", nil, "python3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewResolver(WithLookPath(lookPathOnly(tt.found...)))
			if got := r.Resolve("x.py", types.LanguagePython).Program(); got != tt.want {
				t.Errorf("python program = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolver_Deterministic(t *testing.T) {
	t.Parallel()

	r := NewResolver(WithLookPath(lookPathOnly("python3")))
	first := r.Resolve("/a/b.py", types.LanguagePython)
	for range 5 {
		if got := r.Resolve("/a/b.py", types.LanguagePython); !slices.Equal(got, first) {
			t.Fatalf("Resolve() not deterministic: %q then %q", first, got)
		}
	}
}

func TestResolver_Register(t *testing.T) {
	t.Parallel()

	var r Resolver
	r.Register(types.LanguageC, func(p string) Command { return Command{"tcc", "-run", p} })

	if got := r.Resolve("m.c", types.LanguageC); !slices.Equal(got, Command{"tcc", "-run", "m.c"}) {
		t.Errorf("Resolve() after Register = %q", got)
	}
	if langs := r.Languages(); !slices.Equal(langs, []types.Language{types.LanguageC}) {
		t.Errorf("Languages() = %v", langs)
	}
}

func TestResolverFunc(t *testing.T) {
	t.Parallel()

	var res CommandResolver = ResolverFunc(func(path string, _ types.Language) Command {
		return Command{"cat", path}
	})
	if got := res.Resolve("f", types.LanguageRuby); !slices.Equal(got, Command{"cat", "f"}) {
		t.Errorf("ResolverFunc.Resolve() = %q", got)
	}
}
