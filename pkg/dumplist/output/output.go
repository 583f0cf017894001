// Package output renders the results of dumplist operations in various
// formats (plain, pretty, json, yaml).
//
// The package uses a registry pattern so formatters can be selected by
// name at runtime.
//
// Basic usage:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, output.FromReport(report)); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/reconcile"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/touch"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
)

// Stats merges the counters of every operation. Fields an operation does
// not produce stay zero.
type Stats struct {
	Files       int
	Entries     int
	New         int
	Deleted     int
	Modified    int
	Mismatched  int
	Failed      int
	Unchanged   int
	Hashed      int
	BytesHashed int64
	Touched     int
	Skipped     int
	Duration    time.Duration
}

// Result is the formatter input for any operation.
type Result struct {
	// Operation is check, test, generate, update or touchdir.
	Operation string

	// Root is the directory the operation ran on.
	Root string

	// ListPath is the listing file, empty for touchdir.
	ListPath string

	// Findings holds the diagnostics of check and test.
	Findings []reconcile.Finding

	Stats Stats

	// Errors holds per-file failures.
	Errors []types.FileError
}

// IsCheck reports whether the result comes from check or test.
func (r *Result) IsCheck() bool {
	return r.Operation == reconcile.OpCheck || r.Operation == reconcile.OpTest
}

// FromReport converts a check report.
func FromReport(rep *reconcile.Report) *Result {
	return &Result{
		Operation: rep.Operation,
		Root:      rep.Root,
		Findings:  rep.Findings,
		Stats:     fromReconcileStats(rep.Stats),
		Errors:    rep.Errors,
	}
}

// FromResult converts a generate or update result.
func FromResult(res *reconcile.Result) *Result {
	return &Result{
		Operation: res.Operation,
		Root:      res.Root,
		ListPath:  res.ListPath,
		Stats:     fromReconcileStats(res.Stats),
		Errors:    res.Errors,
	}
}

// FromTouch converts touchdir stats.
func FromTouch(root string, st *touch.Stats) *Result {
	return &Result{
		Operation: "touchdir",
		Root:      root,
		Stats: Stats{
			Entries:  st.Entries,
			Touched:  st.Touched,
			Skipped:  st.Skipped,
			Duration: st.Duration,
		},
	}
}

func fromReconcileStats(s reconcile.Stats) Stats {
	return Stats{
		Files:       s.Files,
		Entries:     s.Entries,
		New:         s.New,
		Deleted:     s.Deleted,
		Modified:    s.Modified,
		Mismatched:  s.Mismatched,
		Failed:      s.Failed,
		Unchanged:   s.Unchanged,
		Hashed:      s.Hashed,
		BytesHashed: s.BytesHashed,
		Duration:    s.Duration,
	}
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory, replacing any formatter of the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
