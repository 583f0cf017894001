// Package walker enumerates the files (and optionally directories) of a
// tree as canonical inventory paths. Traversal runs on fastwalk; the result
// is always sorted so callers see a deterministic order regardless of how
// many workers walked the tree.
package walker

import (
	"github.com/NewEraCracker/dumplist/pkg/dumplist/config"
)

// Options configures the walker behavior.
type Options struct {
	// Root is the directory to enumerate. Paths are reported relative to it.
	Root string

	// IncludeDirs adds directories to the result alongside files.
	IncludeDirs bool

	// Ignore lists the paths and patterns that are skipped entirely.
	// Directory entries end with a slash and prune the whole subtree.
	Ignore *IgnoreSet

	// Workers is the number of fastwalk workers. Zero uses fastwalk's default.
	Workers int
}

// Validate applies defaults to unset options.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = config.DefaultRoot
	}
	if o.Workers < 0 {
		o.Workers = 0
	}
	if o.Ignore == nil {
		o.Ignore = NewIgnoreSet()
	}
	return nil
}
