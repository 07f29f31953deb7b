// SPDX-License-Identifier: MPL-2.0

package recipefs

import (
	"cmp"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// RecipeExt is the extension of recipe files.
const RecipeExt = ".cook"

type (
	// DirEntry is a file or directory met while walking a collection.
	DirEntry struct {
		fs    afero.Fs
		path  string
		name  string
		depth int
		isDir bool
		isReg bool
	}

	// Option configures where recipes are read from.
	Option func(*options)

	options struct {
		fs afero.Fs
	}

	// walker is a resumable depth-first walk. It holds the pending
	// directories as an explicit stack, so every Next call continues exactly
	// where the previous one stopped. It never rewinds.
	walker struct {
		fs       afero.Fs
		root     string
		maxDepth int
		order    func(a, b os.FileInfo) int
		keep     func(DirEntry) bool
		stack    []*frame
		started  bool
		pending  error
		visited  int
	}

	// frame is a directory whose children are being yielded.
	frame struct {
		dir     string
		depth   int // depth of the children
		entries []os.FileInfo
		next    int
	}
)

// WithFs reads recipes from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

func newOptions(opts []Option) options {
	o := options{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Path returns the path of the entry, rooted at the walked directory.
func (e DirEntry) Path() string { return e.path }

// FileName returns the last element of the path.
func (e DirEntry) FileName() string { return e.name }

// FileStem returns the file name without its extension.
func (e DirEntry) FileStem() string { return fileStem(e.name) }

// Depth returns the depth below the walked directory, starting at 1 for its
// children.
func (e DirEntry) Depth() int { return e.depth }

// IsDir reports whether the entry is a directory.
func (e DirEntry) IsDir() bool { return e.isDir }

// IsFile reports whether the entry is a regular file.
func (e DirEntry) IsFile() bool { return e.isReg }

// IsRecipe reports whether the entry is a regular file with the recipe extension.
func (e DirEntry) IsRecipe() bool {
	return e.isReg && filepath.Ext(e.name) == RecipeExt
}

// fileStem strips the last extension. Names starting with their only dot,
// like ".cook", are returned whole.
func fileStem(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name
	}
	return name[:i]
}

// filesFirst orders files before directories, then by name.
func filesFirst(a, b os.FileInfo) int {
	if a.IsDir() != b.IsDir() {
		if a.IsDir() {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Name(), b.Name())
}

func byName(a, b os.FileInfo) int {
	return cmp.Compare(a.Name(), b.Name())
}

func newWalker(fs afero.Fs, root string, maxDepth int, order func(a, b os.FileInfo) int) *walker {
	return &walker{fs: fs, root: root, maxDepth: maxDepth, order: order}
}

// Next returns the next entry, false once the walk is exhausted, or an error.
// A directory that cannot be read is yielded, then its error is returned by
// the following call and the directory is skipped. The walk can continue
// after any error.
func (w *walker) Next() (DirEntry, bool, error) {
	if !w.started {
		w.started = true
		if w.maxDepth > 0 {
			if err := w.push(w.root, 1); err != nil {
				return DirEntry{}, false, err
			}
		}
	}

	if w.pending != nil {
		err := w.pending
		w.pending = nil
		return DirEntry{}, false, err
	}

	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		if top.next >= len(top.entries) {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}
		info := top.entries[top.next]
		top.next++
		w.visited++

		path := filepath.Join(top.dir, info.Name())
		if !utf8.ValidString(path) {
			return DirEntry{}, false, &NonUTF8PathError{Path: path}
		}

		entry := DirEntry{
			fs:    w.fs,
			path:  path,
			name:  info.Name(),
			depth: top.depth,
			isDir: info.IsDir(),
			isReg: info.Mode().IsRegular(),
		}
		if w.keep != nil && !w.keep(entry) {
			continue
		}
		if entry.isDir && top.depth < w.maxDepth {
			w.pending = w.push(path, top.depth+1)
		}
		return entry, true, nil
	}

	return DirEntry{}, false, nil
}

// push reads dir and schedules its children.
func (w *walker) push(dir string, depth int) error {
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		return &WalkError{Path: dir, Err: err}
	}
	slices.SortStableFunc(entries, w.order)
	w.stack = append(w.stack, &frame{dir: dir, depth: depth, entries: entries})
	return nil
}

// AllRecipes walks basePath up to maxDepth and yields every directory and
// recipe file, sorted by name within each directory. Errors are yielded with
// a zero DirEntry and the walk goes on. It is independent of any Index.
func AllRecipes(basePath string, maxDepth int, opts ...Option) iter.Seq2[DirEntry, error] {
	o := newOptions(opts)
	return func(yield func(DirEntry, error) bool) {
		w := newWalker(o.fs, basePath, maxDepth, byName)
		w.keep = func(e DirEntry) bool { return e.isDir || e.IsRecipe() }
		for {
			entry, ok, err := w.Next()
			if err != nil {
				if !yield(DirEntry{}, err) {
					return
				}
				continue
			}
			if !ok {
				return
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

func baseName(path string) string { return filepath.Base(path) }

// readDir lists dir without recursing.
func readDir(o options, dir string) ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(o.fs, dir)
	if err != nil {
		return nil, &WalkError{Path: dir, Err: err}
	}
	return infos, nil
}
