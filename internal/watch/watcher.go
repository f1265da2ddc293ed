// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/codesubmit/codesubmit/internal/discovery"
)

// DefaultDebounce is the quiet period after the last event before OnChange fires.
const DefaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// defaultIgnores are never watched: VCS metadata, dependency caches, editor
// swap files and interpreter byproducts.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/.venv/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
	"**/*.class",
	"**/*.pyc",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are the files and directories to watch. An empty slice watches
		// the current working directory.
		Roots []string

		// Filter selects which changed paths trigger OnChange. It receives the
		// slash-separated path relative to the root it was found under. A nil
		// Filter accepts any file with a known source language.
		Filter func(rel string) bool

		// Ignore are additional doublestar patterns merged with the built-in
		// ignores. Matching directories are not registered at all.
		Ignore []string

		// Debounce is the quiet period after the last event. Zero or negative
		// values use DefaultDebounce.
		Debounce time.Duration

		// ClearScreen clears the terminal on Stdout before each OnChange.
		ClearScreen bool
		Stdout      io.Writer

		// Logger receives watcher diagnostics. nil discards them.
		Logger *log.Logger

		// OnChange is called with the sorted, deduplicated changed paths.
		// Calls never overlap.
		OnChange func(ctx context.Context, changed []string) error
	}

	// Watcher monitors source roots and fires a debounced callback.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		roots    []root
		ignores  []string
		filter   func(string) bool
		debounce time.Duration
		stdout   io.Writer
		logger   *log.Logger
		started  atomic.Bool
	}

	// root is one watched location. For a file root, dir is its parent and
	// only events for file are accepted.
	root struct {
		dir  string
		file string
	}
)

// New resolves the roots, validates the ignore patterns and registers the
// directory tree with fsnotify.
func New(cfg Config) (*Watcher, error) {
	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}

	roots, err := resolveRoots(cfg.Roots)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		roots:    roots,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		filter:   cfg.Filter,
		debounce: cfg.Debounce,
		stdout:   cfg.Stdout,
		logger:   cfg.Logger,
	}
	if w.filter == nil {
		w.filter = func(rel string) bool {
			_, ok := discovery.DetectLanguage(rel)
			return ok
		}
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.stdout == nil {
		w.stdout = os.Stdout
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}

	for _, r := range roots {
		if err := w.register(r); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				w.logger.Warn("close watcher after init failure", "err", closeErr)
			}
			return nil, err
		}
	}
	return w, nil
}

func resolveRoots(paths []string) ([]root, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	roots := make([]root, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve root %q: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch: stat root %q: %w", p, err)
		}
		if info.IsDir() {
			roots = append(roots, root{dir: abs})
		} else {
			roots = append(roots, root{dir: filepath.Dir(abs), file: abs})
		}
	}
	return roots, nil
}

// Run processes events until ctx is canceled. It returns nil on
// cancellation and an error when fsnotify fails irrecoverably.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("batch still running, deferring re-run")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}
		w.logger.Info("Change detected", "files", len(changed))
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("re-run failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Create) {
				w.maybeRegister(evt.Name)
			}
			rel, ok := w.accept(evt.Name)
			if !ok {
				continue
			}
			w.logger.Debug("source changed", "file", rel, "op", evt.Op.String())

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed unexpectedly")
			}
			if isFatalWatchError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// accept maps an event path to its root-relative form and reports whether
// it should trigger a re-run.
func (w *Watcher) accept(path string) (string, bool) {
	for _, r := range w.roots {
		if r.file != "" {
			if path == r.file {
				return filepath.ToSlash(filepath.Base(path)), true
			}
			continue
		}
		rel, ok := within(r.dir, path)
		if !ok {
			continue
		}
		if w.ignored(rel) || !w.filter(rel) {
			return "", false
		}
		return rel, true
	}
	return "", false
}

// register adds a root to fsnotify. Directory roots are walked so every
// non-ignored subdirectory is watched.
func (w *Watcher) register(r root) error {
	if r.file != "" {
		if err := w.fsw.Add(r.dir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", r.dir, err)
		}
		return nil
	}

	err := filepath.WalkDir(r.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", err)
			return nil //nolint:nilerr // unreadable subtrees are not watched
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(r.dir, path)
		if relErr != nil {
			return nil //nolint:nilerr // unreachable for paths produced by the walk
		}
		if rel != "." && w.ignored(filepath.ToSlash(rel)+"/") {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		w.logger.Debug("watching", "dir", path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %q: %w", r.dir, err)
	}
	return nil
}

// maybeRegister watches a directory created after startup.
func (w *Watcher) maybeRegister(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	for _, r := range w.roots {
		if r.file != "" {
			continue
		}
		rel, ok := within(r.dir, path)
		if !ok {
			continue
		}
		if w.ignored(rel + "/") {
			return
		}
		if err := w.register(root{dir: path}); err != nil {
			w.logger.Warn("watch new directory", "dir", path, "err", err)
		}
		return
	}
}

// within returns path relative to dir, slash-separated, when path lies under dir.
func within(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) ignored(rel string) bool {
	for _, pat := range w.ignores {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}
