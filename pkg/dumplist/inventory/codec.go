package inventory

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/digest"
	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
)

const (
	metaPrefix = "; "
	pathMarker = "*"
)

// ErrParse is matched by every error returned from Parse.
var ErrParse = errors.New("invalid listing")

// ParseError describes why a listing was rejected.
type ParseError struct {
	// Reason is a short description of the failure.
	Reason string

	// Index is the entry index the failure refers to, or -1.
	Index int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s at entry %d", ErrParse, e.Reason, e.Index)
	}
	return fmt.Sprintf("%s: %s", ErrParse, e.Reason)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// metaLine is one entry of the metadata section.
type metaLine struct {
	mtime  int64
	parity string
	name   string
}

// contentLine is one entry of the content section.
type contentLine struct {
	sha256 string
	name   string
}

// Parse reads a listing. Metadata and content lines are collected
// independently, in file order, and paired by index; lines of neither kind
// are ignored. The listing is rejected when either section is empty, when
// their lengths differ, or when the names at any index differ.
func Parse(data []byte) (*Inventory, error) {
	var metas []metaLine
	var contents []contentLine

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if m, ok := parseMetaLine(line); ok {
			metas = append(metas, m)
			continue
		}
		if c, ok := parseContentLine(line); ok {
			contents = append(contents, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Reason: err.Error(), Index: -1}
	}

	if len(metas) == 0 {
		return nil, &ParseError{Reason: "no metadata entries", Index: -1}
	}
	if len(contents) == 0 {
		return nil, &ParseError{Reason: "no digest entries", Index: -1}
	}
	if len(metas) != len(contents) {
		return nil, &ParseError{
			Reason: fmt.Sprintf("entry count mismatch (%d metadata, %d digests)", len(metas), len(contents)),
			Index:  -1,
		}
	}

	inv := New()
	for i := range metas {
		name := metas[i].name
		if name != contents[i].name || !strings.HasPrefix(name, pathMarker) {
			return nil, &ParseError{Reason: "invalid entry order", Index: i}
		}
		p := types.Path(types.PathPrefix + strings.TrimPrefix(name, pathMarker))
		inv.Put(p, types.FileRecord{
			Mtime:  metas[i].mtime,
			Parity: metas[i].parity,
			SHA256: contents[i].sha256,
		})
	}

	return inv, nil
}

// parseMetaLine recognizes "; <mtime> <parity> <name>".
func parseMetaLine(line string) (metaLine, bool) {
	if !strings.HasPrefix(line, metaPrefix) {
		return metaLine{}, false
	}
	fields := strings.SplitN(line[len(metaPrefix):], " ", 3)
	if len(fields) != 3 || fields[2] == "" {
		return metaLine{}, false
	}
	if !isDigits(fields[0]) || !isParity(fields[1]) {
		return metaLine{}, false
	}
	mtime, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return metaLine{}, false
	}
	return metaLine{mtime: mtime, parity: fields[1], name: fields[2]}, true
}

// parseContentLine recognizes "<sha256> <name>".
func parseContentLine(line string) (contentLine, bool) {
	n := digest.SHA256Length
	if len(line) < n+2 || line[n] != ' ' {
		return contentLine{}, false
	}
	if !isLowerHex(line[:n]) {
		return contentLine{}, false
	}
	return contentLine{sha256: line[:n], name: line[n+1:]}, true
}

// Serialize renders the inventory in listing form: all metadata lines,
// then all content lines, both sorted ordinally by path.
func Serialize(inv *Inventory) []byte {
	paths := inv.SortedPaths()

	var buf bytes.Buffer
	for _, p := range paths {
		rec := inv.records[p]
		fmt.Fprintf(&buf, "%s%d %s %s\n", metaPrefix, rec.Mtime, rec.Parity, encodeName(p))
	}
	for _, p := range paths {
		rec := inv.records[p]
		fmt.Fprintf(&buf, "%s %s\n", rec.SHA256, encodeName(p))
	}
	return buf.Bytes()
}

// encodeName replaces the "./" prefix with the path marker.
func encodeName(p types.Path) string {
	return pathMarker + p.Rel()
}

func sortPaths(paths []types.Path) {
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func isParity(s string) bool {
	if len(s) != digest.ParityLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
