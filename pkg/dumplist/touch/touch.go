// Package touch propagates file modification times up the directory tree,
// so that each directory carries the newest mtime found beneath it.
package touch

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/config"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/walker"
)

// desktopINI is skipped wherever it appears, in any letter case.
const desktopINI = "desktop.ini"

// Options configures TouchDirectories.
type Options struct {
	// Root is the tree to process. The root directory itself is touched too.
	Root string

	// Ignore is passed to the walker. Nil uses walker.NewIgnoreSet().
	Ignore *walker.IgnoreSet

	// Workers is passed to the walker.
	Workers int

	// Logger nil uses the "touch" component.
	Logger *logging.Logger
}

// Stats summarizes a run.
type Stats struct {
	// Entries is the number of files and directories walked.
	Entries int `json:"entries" yaml:"entries"`

	// Touched counts directory timestamp updates across both passes.
	Touched int `json:"touched" yaml:"touched"`

	// Skipped counts entries left alone because they were hidden, a
	// desktop.ini, unreadable or inside an unwritable directory.
	Skipped int `json:"skipped" yaml:"skipped"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

type entry struct {
	path  types.Path
	isDir bool
}

// cursor is the fold state: the directory being attributed and the newest
// mtime assigned to it so far.
type cursor struct {
	dir types.Path
	max int64
}

type toucher struct {
	root  string
	log   *logging.Logger
	stats Stats
}

// TouchDirectories walks the tree, deepest entries first, and sets each
// directory's mtime to the newest mtime of its children. Pass one
// attributes files and subdirectories; pass two attributes files only.
// Entries that cannot be read and directories that cannot be written are
// skipped without error.
func TouchDirectories(ctx context.Context, opts Options) (*Stats, error) {
	start := time.Now()

	if opts.Root == "" {
		opts.Root = config.DefaultRoot
	}
	if opts.Logger == nil {
		opts.Logger = logging.Get("touch")
	}

	paths, err := walker.Walk(ctx, walker.Options{
		Root:        opts.Root,
		IncludeDirs: true,
		Ignore:      opts.Ignore,
		Workers:     opts.Workers,
	})
	if err != nil {
		return nil, err
	}
	walker.SortByDepthDesc(paths)

	t := &toucher{root: opts.Root, log: opts.Logger}
	t.stats.Entries = len(paths)

	entries, err := t.classify(ctx, paths)
	if err != nil {
		return nil, err
	}

	if err := t.pass(ctx, entries, true); err != nil {
		return nil, err
	}
	if err := t.pass(ctx, entries, false); err != nil {
		return nil, err
	}

	t.stats.Duration = time.Since(start)
	t.log.Info("touchdir complete",
		"entries", t.stats.Entries,
		"touched", t.stats.Touched,
		"duration", t.stats.Duration,
	)
	return &t.stats, nil
}

// classify records which walked paths are directories.
func (t *toucher) classify(ctx context.Context, paths []types.Path) ([]entry, error) {
	entries := make([]entry, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Lstat(p.OSPath(t.root))
		if err != nil {
			t.log.Debug("entry vanished", "path", p, "err", err)
			continue
		}
		entries = append(entries, entry{path: p, isDir: info.IsDir()})
	}
	return entries, nil
}

// pass folds over entries with a per-directory cursor.
func (t *toucher) pass(ctx context.Context, entries []entry, withDirs bool) error {
	var cur cursor

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.isDir && !withDirs {
			continue
		}

		parent := e.path.Parent()
		if parent != cur.dir {
			cur = cursor{dir: parent}
		}

		if skipped(e.path) {
			t.stats.Skipped++
			continue
		}

		info, err := os.Stat(e.path.OSPath(t.root))
		if err != nil {
			t.log.Debug("cannot stat entry", "path", e.path, "err", err)
			t.stats.Skipped++
			continue
		}

		mtime := info.ModTime().Unix()
		if mtime <= 0 || mtime <= cur.max {
			continue
		}

		dir := parent.OSPath(t.root)
		if !writable(dir) {
			t.log.Debug("directory not writable", "path", parent)
			t.stats.Skipped++
			continue
		}

		cur.max = mtime
		ts := time.Unix(mtime, 0)
		if err := os.Chtimes(dir, ts, ts); err != nil {
			t.log.Debug("cannot set directory time", "path", parent, "err", err)
			t.stats.Skipped++
			continue
		}
		t.stats.Touched++
	}

	return nil
}

// skipped reports whether p is a desktop.ini file or lies under a hidden
// component.
func skipped(p types.Path) bool {
	return strings.EqualFold(p.Base(), desktopINI) || p.IsHidden()
}
