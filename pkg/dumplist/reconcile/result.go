package reconcile

import (
	"time"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/inventory"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
)

// Operation names.
const (
	OpCheck    = "check"
	OpTest     = "test"
	OpGenerate = "generate"
	OpUpdate   = "update"
)

// Stats counts what an operation saw and did.
type Stats struct {
	// Files is the number of files found by the walk.
	Files int `json:"files" yaml:"files"`

	// Entries is the number of inventory entries at the end.
	Entries int `json:"entries" yaml:"entries"`

	New        int `json:"new" yaml:"new"`
	Deleted    int `json:"deleted" yaml:"deleted"`
	Modified   int `json:"modified" yaml:"modified"`
	Mismatched int `json:"mismatched" yaml:"mismatched"`
	Failed     int `json:"failed" yaml:"failed"`
	Unchanged  int `json:"unchanged" yaml:"unchanged"`

	// Hashed is the number of files fingerprinted.
	Hashed int `json:"hashed" yaml:"hashed"`

	// BytesHashed is the total read by the provider, when it reports it.
	BytesHashed int64 `json:"bytes_hashed" yaml:"bytes_hashed"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Report is the outcome of Check.
type Report struct {
	Operation string            `json:"operation" yaml:"operation"`
	Root      string            `json:"root" yaml:"root"`
	Findings  []Finding         `json:"findings" yaml:"findings"`
	Stats     Stats             `json:"stats" yaml:"stats"`
	Errors    []types.FileError `json:"-" yaml:"-"`
}

// HasErrors reports whether any file could not be read.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Result is the outcome of Generate and Update.
type Result struct {
	Operation string               `json:"operation" yaml:"operation"`
	Root      string               `json:"root" yaml:"root"`
	ListPath  string               `json:"list_path" yaml:"list_path"`
	Inventory *inventory.Inventory `json:"-" yaml:"-"`
	Stats     Stats                `json:"stats" yaml:"stats"`
	Errors    []types.FileError    `json:"-" yaml:"-"`
}

// HasErrors reports whether any file could not be processed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}
