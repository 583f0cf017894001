package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/charlievieth/fastwalk"
)

// Walker enumerates a tree using fastwalk.
type Walker struct {
	opts Options

	mu      sync.Mutex
	results []types.Path
	dirs    int
	files   int
}

// New creates a Walker with the given options.
// Options are validated and defaults are applied.
func New(opts Options) *Walker {
	_ = opts.Validate()
	return &Walker{opts: opts}
}

// Walk is a convenience wrapper around New(opts).Walk(ctx).
func Walk(ctx context.Context, opts Options) ([]types.Path, error) {
	return New(opts).Walk(ctx)
}

// Walk enumerates the tree and returns its paths sorted ordinally.
// The root itself is never part of the result. Symlinks, devices and other
// special files are not reported. Any traversal error aborts the walk.
func (w *Walker) Walk(ctx context.Context) ([]types.Path, error) {
	root, err := w.validateRoot()
	if err != nil {
		return nil, err
	}

	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: w.opts.Workers,
	}

	w.mu.Lock()
	w.results = make([]types.Path, 0, 64)
	w.dirs, w.files = 0, 0
	w.mu.Unlock()

	if err := fastwalk.Walk(&conf, root, w.walkCallback(ctx, root)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	SortOrdinal(w.results)
	return w.results, nil
}

// Counts returns the number of directories and files seen by the last walk,
// after ignore rules were applied.
func (w *Walker) Counts() (dirs, files int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirs, w.files
}

// validateRoot verifies the root exists and is a directory.
func (w *Walker) validateRoot() (string, error) {
	root := filepath.Clean(w.opts.Root)

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("cannot access root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root is not a directory: %s", root)
	}
	return root, nil
}

// walkCallback returns the callback function for fastwalk.Walk.
// fastwalk invokes it from several goroutines.
func (w *Walker) walkCallback(ctx context.Context, root string) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		p := types.NormalizePath(rel)

		switch {
		case d.IsDir():
			if w.opts.Ignore.IgnoresDir(p) {
				return fastwalk.SkipDir
			}
			w.mu.Lock()
			w.dirs++
			if w.opts.IncludeDirs {
				w.results = append(w.results, p)
			}
			w.mu.Unlock()

		case d.Type().IsRegular():
			if w.opts.Ignore.IgnoresFile(p) {
				return nil
			}
			w.mu.Lock()
			w.files++
			w.results = append(w.results, p)
			w.mu.Unlock()
		}

		return nil
	}
}

// SortOrdinal sorts paths by byte-wise comparison, ascending.
func SortOrdinal(paths []types.Path) {
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
}

// SortByDepthDesc orders paths deepest first, breaking ties by descending
// path, so every entry precedes its ancestors.
func SortByDepthDesc(paths []types.Path) {
	sort.Slice(paths, func(i, j int) bool {
		di, dj := paths[i].Depth(), paths[j].Depth()
		if di != dj {
			return di > dj
		}
		return paths[i] > paths[j]
	})
}
