// Package types provides core data types for dumplist: canonical inventory
// paths, per-file records and per-file failures, along with helpers for
// parsing and formatting sizes.
package types

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// PathPrefix is the marker every canonical Path starts with.
const PathPrefix = "./"

// Path is a file path relative to the inventory root in canonical form:
// forward slashes and a leading "./" (for example "./sub/b.txt").
// Paths compare ordinally.
type Path string

// NormalizePath converts an OS-specific path relative to the root into a Path.
func NormalizePath(rel string) Path {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, PathPrefix)
	rel = strings.TrimLeft(rel, "/")
	return Path(PathPrefix + rel)
}

// String returns the path as a plain string.
func (p Path) String() string {
	return string(p)
}

// Rel returns the path without its "./" prefix.
func (p Path) Rel() string {
	return strings.TrimPrefix(string(p), PathPrefix)
}

// OSPath joins the path with a filesystem root.
func (p Path) OSPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(p.Rel()))
}

// Depth returns the number of separators in the path.
func (p Path) Depth() int {
	return strings.Count(string(p), "/")
}

// Parent returns the containing directory. Top-level entries return ".".
func (p Path) Parent() Path {
	d := path.Dir(p.Rel())
	if d == "." {
		return "."
	}
	return Path(PathPrefix + d)
}

// Base returns the last element of the path.
func (p Path) Base() string {
	return path.Base(string(p))
}

// IsHidden reports whether any component below the root starts with a dot.
func (p Path) IsHidden() bool {
	for _, part := range strings.Split(p.Rel(), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// FileRecord is the inventory entry for one tracked file.
type FileRecord struct {
	// Mtime is the modification time in whole seconds since the epoch.
	Mtime int64 `json:"mtime" yaml:"mtime"`

	// Parity is the 48-character MD5+SHA-1 token.
	Parity string `json:"parity" yaml:"parity"`

	// SHA256 is the lowercase hex SHA-256 digest.
	SHA256 string `json:"sha256" yaml:"sha256"`
}

// FileError pairs a path with the I/O failure that prevented it from being
// processed. Operations collect these instead of aborting.
type FileError struct {
	// Path is the inventory path that failed.
	Path Path `json:"path" yaml:"path"`

	// Op names the step that failed (stat, hash).
	Op string `json:"op" yaml:"op"`

	// Err is the underlying error.
	Err error `json:"-" yaml:"-"`
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}

// ErrFilesFailed is returned by the CLI when one or more files could not be
// processed during an otherwise completed operation.
var ErrFilesFailed = errors.New("one or more files could not be processed")
