// SPDX-License-Identifier: MPL-2.0

package recipefs

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// Index resolves recipe names to recipe files below a base directory.
//
// Get and Contains look like queries but advance the shared walk and fill
// the caches; results depend on call order. See the package documentation.
type Index struct {
	fs       afero.Fs
	basePath string
	maxDepth int
	cache    map[string][]string // stem -> paths, in discovery order
	walked   map[string]string   // stem -> first path the walk met
	resolved map[string]string   // name -> path, as given by the caller
	absent   map[string]struct{} // names proven missing, as given by the caller
	walker   *walker
}

// NewIndex creates an index over basePath that walks at most maxDepth
// levels deep. basePath must be a readable directory.
func NewIndex(basePath string, maxDepth int, opts ...Option) (*Index, error) {
	o := newOptions(opts)

	info, err := o.fs.Stat(basePath)
	if err != nil {
		return nil, &WalkError{Path: basePath, Err: err}
	}
	if !info.IsDir() {
		return nil, &WalkError{Path: basePath, Err: afero.ErrFileNotFound}
	}

	return &Index{
		fs:       o.fs,
		basePath: basePath,
		maxDepth: maxDepth,
		cache:    map[string][]string{},
		walked:   map[string]string{},
		resolved: map[string]string{},
		absent:   map[string]struct{}{},
		walker:   newWalker(o.fs, basePath, maxDepth, filesFirst),
	}, nil
}

// BasePath returns the collection directory.
func (idx *Index) BasePath() string { return idx.basePath }

// Contains reports whether Get would find name.
func (idx *Index) Contains(name string) bool {
	_, err := idx.Get(name)
	return err == nil
}

// Get resolves name to a recipe. name is a recipe stem ("Soup"), optionally
// with the recipe extension or a path relative to the base directory
// ("dinner/Soup"). Lookups are answered from the cache first, then by
// probing the path directly, and finally by resuming the walk. A name that
// is not found is never looked up on disk again by this index.
func (idx *Index) Get(name string) (RecipeEntry, error) {
	stem, err := recipeStem(name)
	if err != nil {
		return RecipeEntry{}, err
	}

	if path, ok := idx.cached(stem, name); ok {
		slog.Debug("recipe lookup", "name", name, "outcome", "cached", "path", path)
		return idx.entry(path), nil
	}

	if _, ok := idx.absent[name]; ok {
		slog.Debug("recipe lookup", "name", name, "outcome", "known missing")
		return RecipeEntry{}, &NotFoundError{Name: name}
	}

	if path, ok := idx.probe(name); ok {
		idx.insert(stem, path)
		idx.resolved[name] = path
		slog.Debug("recipe lookup", "name", name, "outcome", "direct", "path", path)
		return idx.entry(path), nil
	}

	for {
		entry, ok, err := idx.walker.Next()
		if err != nil {
			slog.Debug("recipe lookup", "name", name, "outcome", "walk error", "error", err)
			return RecipeEntry{}, err
		}
		if !ok {
			break
		}
		if !entry.IsRecipe() {
			continue
		}

		entryStem := entry.FileStem()
		idx.insert(entryStem, entry.Path())
		if _, ok := idx.walked[entryStem]; !ok {
			idx.walked[entryStem] = entry.Path()
		}
		if entryStem == stem {
			idx.resolved[name] = entry.Path()
			slog.Debug("recipe lookup", "name", name, "outcome", "walked", "path", entry.Path())
			return idx.entry(entry.Path()), nil
		}
	}

	idx.absent[name] = struct{}{}
	slog.Debug("recipe lookup", "name", name, "outcome", "missing")
	return RecipeEntry{}, &NotFoundError{Name: name}
}

// cached answers name without touching the filesystem. A name resolved
// before gets the same path again. Otherwise the path name spells must have
// been met already, and a bare name falls back to the first path the walk
// found for its stem.
func (idx *Index) cached(stem, name string) (string, bool) {
	if path, ok := idx.resolved[name]; ok {
		return path, true
	}
	if want := idx.recipePath(name); slices.Contains(idx.cache[stem], want) {
		idx.resolved[name] = want
		return want, true
	}
	if hasDir(name) {
		return "", false
	}
	path, ok := idx.walked[stem]
	if ok {
		idx.resolved[name] = path
	}
	return path, ok
}

// probe checks whether name is a recipe file relative to the base directory.
func (idx *Index) probe(name string) (string, bool) {
	path := idx.recipePath(name)
	info, err := idx.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

func (idx *Index) insert(stem, path string) {
	if !slices.Contains(idx.cache[stem], path) {
		idx.cache[stem] = append(idx.cache[stem], path)
	}
}

func (idx *Index) entry(path string) RecipeEntry {
	return RecipeEntry{fs: idx.fs, path: path}
}

// recipePath is the path name would have as a recipe file: name below the
// base directory with its extension replaced by the recipe extension.
func (idx *Index) recipePath(name string) string {
	name = filepath.FromSlash(name)
	return filepath.Join(idx.basePath, strings.TrimSuffix(name, filepath.Ext(name))+RecipeExt)
}

// recipeStem derives the lookup key of name.
func recipeStem(name string) (string, error) {
	base := filepath.Base(filepath.FromSlash(name))
	switch {
	case name == "", base == ".", base == "..", base == string(filepath.Separator):
		return "", &InvalidNameError{Name: name}
	case strings.LastIndexByte(base, '.') == 0:
		// Only an extension, like ".cook".
		return "", &InvalidNameError{Name: name}
	}
	return fileStem(base), nil
}

func hasDir(name string) bool {
	return strings.ContainsAny(name, `/`+string(filepath.Separator))
}
