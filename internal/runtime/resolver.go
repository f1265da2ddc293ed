// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os/exec"

	"github.com/codesubmit/codesubmit/pkg/types"
)

type (
	// CommandResolver maps a source file to the command that runs it.
	// Implementations must be pure: no side effects, deterministic for a given input.
	CommandResolver interface {
		Resolve(path string, lang types.Language) Command
	}

	// ResolverFunc adapts a function to CommandResolver.
	ResolverFunc func(path string, lang types.Language) Command

	// RunnerTemplate builds the command for one language given the file path.
	RunnerTemplate func(path string) Command

	// Resolver is the table-driven CommandResolver. The zero value resolves nothing.
	Resolver struct {
		runners map[types.Language]RunnerTemplate
	}

	// ResolverOption configures a Resolver.
	ResolverOption func(*resolverOptions)

	resolverOptions struct {
		lookPath func(string) (string, error)
	}
)

// Resolve implements CommandResolver.
func (f ResolverFunc) Resolve(path string, lang types.Language) Command { return f(path, lang) }

// WithLookPath overrides the PATH lookup used to choose between interpreter
// names (e.g., python3 vs python). Tests pass a fixed function so resolution
// does not depend on the host.
func WithLookPath(fn func(string) (string, error)) ResolverOption {
	return func(o *resolverOptions) { o.lookPath = fn }
}

// NewResolver returns a Resolver with the built-in runner table:
//
//	Python      python3 -u <file>   (python when python3 is absent)
//	Java        java <file>         (single-file source launcher)
//	JavaScript  node <file>
//	Ruby        ruby <file>
//	Go          go run <file>
//	Shell       sh <file>
//
// Interpreter names are chosen once, at construction time.
func NewResolver(opts ...ResolverOption) *Resolver {
	o := resolverOptions{lookPath: exec.LookPath}
	for _, opt := range opts {
		opt(&o)
	}

	python := firstOnPath(o.lookPath, "python3", "python")

	return &Resolver{runners: map[types.Language]RunnerTemplate{
		types.LanguagePython:     func(p string) Command { return Command{python, "-u", p} },
		types.LanguageJava:       func(p string) Command { return Command{"java", p} },
		types.LanguageJavaScript: func(p string) Command { return Command{"node", p} },
		types.LanguageRuby:       func(p string) Command { return Command{"ruby", p} },
		types.LanguageGo:         func(p string) Command { return Command{"go", "run", p} },
		types.LanguageShell:      func(p string) Command { return Command{"sh", p} },
	}}
}

// Register sets (or replaces) the runner for lang and returns the Resolver
// for chaining. Register is meant for setup, before the Resolver is shared.
func (r *Resolver) Register(lang types.Language, tmpl RunnerTemplate) *Resolver {
	if r.runners == nil {
		r.runners = make(map[types.Language]RunnerTemplate)
	}
	r.runners[lang] = tmpl
	return r
}

// Resolve returns the command for the file, or the empty Command when the
// language has no runner.
func (r *Resolver) Resolve(path string, lang types.Language) Command {
	tmpl, ok := r.runners[lang]
	if !ok {
		return nil
	}
	return tmpl(path)
}

// Languages returns the languages that have a runner.
func (r *Resolver) Languages() []types.Language {
	langs := make([]types.Language, 0, len(r.runners))
	for l := range r.runners {
		langs = append(langs, l)
	}
	return langs
}

// firstOnPath returns the first candidate found by lookPath, or the first
// candidate when none is found so the launch error names the preferred binary.
func firstOnPath(lookPath func(string) (string, error), candidates ...string) string {
	for _, c := range candidates {
		if _, err := lookPath(c); err == nil {
			return c
		}
	}
	return candidates[0]
}
