// SPDX-License-Identifier: MPL-2.0

// Package watch watches a recipe collection and reports debounced changes.
//
// Recipe files, recipe images and the collection config file are watched in
// every directory down to a maximum depth. Events within the debounce window
// are coalesced so the callback fires once with the full set of changes.
package watch

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/chefkit/chef/pkg/recipefs"
)

const (
	// ChangeRecipe is a change to a .cook file.
	ChangeRecipe ChangeKind = iota + 1
	// ChangeImage is a change to a recipe image.
	ChangeImage
	// ChangeConfig is a change to the collection config file.
	ChangeConfig

	// defaultDebounce is the delay before firing the callback after the last
	// filesystem event, so an editor writing then renaming a temp file
	// produces a single callback.
	defaultDebounce = 300 * time.Millisecond

	configDir     = ".cooklang"
	configPattern = configDir + "/config.toml"
)

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")

	// defaultIgnores are never watched.
	defaultIgnores = []string{
		"**/.git/**",
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.#*",
		"**/.DS_Store",
	}
)

type (
	// ChangeKind classifies a changed file.
	ChangeKind int

	// Change is a changed file, relative to the collection.
	Change struct {
		Path string
		Kind ChangeKind
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		// Collection is the root directory to watch.
		Collection string

		// MaxDepth bounds the watched directories like the recipe index does:
		// files directly in Collection are at depth 1.
		MaxDepth int

		// Ignore are additional doublestar patterns, relative to Collection,
		// merged with the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values fall back to the default.
		Debounce time.Duration

		// OnChange is called after the debounce window closes with the
		// deduplicated changes, sorted by path. Its error is logged.
		OnChange func(ctx context.Context, changes []Change) error
	}

	// Watcher monitors a collection and fires a debounced callback when
	// recipes, images or the collection config change. Run must be called
	// exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns map[ChangeKind]string
		ignores  []string
		debounce time.Duration
		baseDir  string
		started  atomic.Bool
	}
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeRecipe:
		return "recipe"
	case ChangeImage:
		return "image"
	case ChangeConfig:
		return "config"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// New creates a Watcher and registers every non-ignored directory of the
// collection down to MaxDepth.
func New(cfg Config) (*Watcher, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("watch: no collection directory")
	}
	absBase, err := filepath.Abs(cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve collection directory: %w", err)
	}

	// Invalid globs fail at construction time rather than never matching.
	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w := &Watcher{
		cfg: cfg,
		fsw: fsw,
		patterns: map[ChangeKind]string{
			ChangeRecipe: "**/*" + recipefs.RecipeExt,
			ChangeImage:  "**/*.{" + strings.Join(recipefs.ImageExtensions(), ",") + "}",
			ChangeConfig: configPattern,
		},
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		debounce: debounce,
		baseDir:  absBase,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			slog.Warn("watch: close after init failure", "error", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on cancellation and the
// error of a watcher that cannot recover otherwise.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]ChangeKind)
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after ctx is cancelled; it also skips while a previous
	// callback is still running and retries after another debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			slog.Debug("watch: previous run still in progress, retrying")
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
		changes := make([]Change, 0, len(pending))
		for path, kind := range pending {
			changes = append(changes, Change{Path: path, Kind: kind})
		}
		clear(pending)
		mu.Unlock()

		slices.SortFunc(changes, func(a, b Change) int { return cmp.Compare(a.Path, b.Path) })

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changes); err != nil {
				slog.Warn("watch: callback failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			slog.Warn("watch: close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel, err := filepath.Rel(w.baseDir, evt.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			if w.isIgnored(rel) {
				continue
			}

			// Extend the watch to directories created after startup.
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name, rel)
			}

			kind, ok := w.classify(rel)
			if !ok {
				continue
			}

			mu.Lock()
			pending[rel] = kind
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			slog.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// classify returns the kind of change for a path relative to the collection.
func (w *Watcher) classify(rel string) (ChangeKind, bool) {
	for _, kind := range []ChangeKind{ChangeConfig, ChangeRecipe, ChangeImage} {
		if matched, err := doublestar.Match(w.patterns[kind], rel); err == nil && matched {
			return kind, true
		}
	}
	return 0, false
}

// addDirectories registers the collection and its directories down to
// MaxDepth-1, the deepest level whose files are still at MaxDepth. The
// config directory is always watched.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			// Inaccessible directories are skipped, not fatal.
			slog.Warn("watch: skipping inaccessible path", "path", path, "error", walkDirErr)
			return nil //nolint:nilerr // intentional skip of inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}
		rel = filepath.ToSlash(rel)

		if !w.shouldWatchDir(rel) {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk collection: %w", walkErr)
	}
	return nil
}

// shouldWatchDir decides whether the directory rel, relative to the
// collection, can contain watched files.
func (w *Watcher) shouldWatchDir(rel string) bool {
	if rel == "." {
		return true
	}
	if rel == configDir {
		return true
	}
	if w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return false
	}
	return dirDepth(rel) < w.cfg.MaxDepth
}

// maybeAddDir adds a newly created directory to the watcher.
func (w *Watcher) maybeAddDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || !w.shouldWatchDir(rel) {
		return
	}
	if addErr := w.fsw.Add(path); addErr != nil {
		slog.Warn("watch: add new directory", "path", path, "error", addErr)
	}
}

// isIgnored returns true if rel matches any ignore pattern.
func (w *Watcher) isIgnored(rel string) bool {
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, rel); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// dirDepth is the depth of a directory below the collection: 1 for its
// direct children.
func dirDepth(rel string) int {
	return strings.Count(rel, "/") + 1
}
