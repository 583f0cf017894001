// Package reconcile compares an inventory with the live tree. Check reports
// the differences; Generate and Update rebuild the listing file.
package reconcile

import (
	"path/filepath"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/config"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/digest"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/walker"
)

// Options configures an Engine.
type Options struct {
	// Root is the directory being inventoried.
	Root string

	// ListFile is the listing file. A relative name is resolved against Root.
	ListFile string

	// Ignore is the set of paths left out of every walk. Nil uses
	// walker.DefaultIgnoreSet. The listing file is always added.
	Ignore *walker.IgnoreSet

	// Provider computes fingerprints. Nil uses a digest.FileProvider.
	Provider digest.Provider

	// Workers is passed to the walker.
	Workers int

	// Logger receives progress messages. Nil uses the "reconcile" component.
	Logger *logging.Logger
}

// Validate applies defaults to unset options.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = config.DefaultRoot
	}
	if o.ListFile == "" {
		o.ListFile = config.DefaultListFile
	}
	// The listing never lists itself, whatever set the caller passed.
	entry := walker.ListEntry(o.Root, o.ListFile)
	if o.Ignore == nil {
		o.Ignore = walker.DefaultIgnoreSet(entry)
	} else {
		o.Ignore.Add(entry)
	}
	if o.Provider == nil {
		o.Provider = digest.NewFileProvider()
	}
	if o.Logger == nil {
		o.Logger = logging.Get("reconcile")
	}
	return nil
}

// ListPath returns the filesystem path of the listing file.
func (o *Options) ListPath() string {
	if filepath.IsAbs(o.ListFile) {
		return o.ListFile
	}
	return filepath.Join(o.Root, o.ListFile)
}
