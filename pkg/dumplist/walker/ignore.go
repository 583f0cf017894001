package walker

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/gobwas/glob"
)

// SensitiveFiles are access-control and server configuration files that
// never belong in a published listing.
var SensitiveFiles = []string{
	".htaccess",
	".htpasswd",
	".user.ini",
	"web.config",
}

// globMeta marks an entry as a pattern rather than a path.
const globMeta = "*?[{"

// pattern is a compiled glob entry. Patterns without a slash match the
// base name at any depth; the others match the whole relative path.
type pattern struct {
	source   string
	matcher  glob.Glob
	baseOnly bool
	dirOnly  bool
}

func (p *pattern) match(path types.Path, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	if p.baseOnly {
		return p.matcher.Match(path.Base())
	}
	return p.matcher.Match(path.Rel())
}

// IgnoreSet holds the paths and glob patterns excluded from traversal.
// A trailing slash restricts an entry to directories ("./cache/",
// "build-*/"). A nil *IgnoreSet ignores nothing.
type IgnoreSet struct {
	paths    map[string]struct{}
	patterns []pattern
}

// NewIgnoreSet builds a set from user supplied entries. Paths are
// normalized to the "./" form.
func NewIgnoreSet(entries ...string) *IgnoreSet {
	s := &IgnoreSet{paths: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		s.Add(e)
	}
	return s
}

// ListEntry returns the listing file as an ignore entry relative to root.
// An absolute path, or one climbing out with "..", is resolved against
// root; a listing outside the tree yields "".
func ListEntry(root, listFile string) string {
	if listFile == "" {
		return ""
	}
	if clean := filepath.Clean(listFile); !filepath.IsAbs(clean) && !climbsOut(clean) {
		return filepath.ToSlash(clean)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	absList := listFile
	if !filepath.IsAbs(absList) {
		absList = filepath.Join(absRoot, listFile)
	}
	rel, err := filepath.Rel(absRoot, filepath.Clean(absList))
	if err != nil || rel == "." || climbsOut(rel) {
		return ""
	}
	return filepath.ToSlash(rel)
}

func climbsOut(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// DefaultIgnoreSet returns the listing file itself plus SensitiveFiles,
// merged with any extra entries. listFile must be relative to the root;
// see ListEntry.
func DefaultIgnoreSet(listFile string, extra ...string) *IgnoreSet {
	s := NewIgnoreSet(listFile)
	for _, f := range SensitiveFiles {
		s.Add(f)
	}
	for _, e := range extra {
		s.Add(e)
	}
	return s
}

// Add inserts an entry into the set. Entries containing glob
// metacharacters are compiled as patterns; one that does not compile is
// kept as a literal path.
func (s *IgnoreSet) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}
	isDir := strings.HasSuffix(entry, "/")
	trimmed := strings.TrimRight(entry, "/")

	if strings.ContainsAny(trimmed, globMeta) {
		rel := strings.TrimPrefix(trimmed, types.PathPrefix)
		if g, err := glob.Compile(rel, '/'); err == nil {
			s.patterns = append(s.patterns, pattern{
				source:   entry,
				matcher:  g,
				baseOnly: !strings.Contains(rel, "/"),
				dirOnly:  isDir,
			})
			return
		}
	}

	p := string(types.NormalizePath(trimmed))
	if isDir {
		p += "/"
	}
	s.paths[p] = struct{}{}
}

// IgnoresFile reports whether a file path is excluded.
func (s *IgnoreSet) IgnoresFile(p types.Path) bool {
	return s.ignores(p, false)
}

// IgnoresDir reports whether a directory path is excluded.
func (s *IgnoreSet) IgnoresDir(p types.Path) bool {
	return s.ignores(p, true)
}

func (s *IgnoreSet) ignores(p types.Path, isDir bool) bool {
	if s == nil {
		return false
	}
	key := string(p)
	if isDir {
		key += "/"
	}
	if _, ok := s.paths[key]; ok {
		return true
	}
	for i := range s.patterns {
		if s.patterns[i].match(p, isDir) {
			return true
		}
	}
	return false
}

// Entries returns the paths sorted, followed by the patterns in the
// order they were added.
func (s *IgnoreSet) Entries() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.paths)+len(s.patterns))
	for e := range s.paths {
		out = append(out, e)
	}
	sort.Strings(out)
	for _, p := range s.patterns {
		out = append(out, p.source)
	}
	return out
}
