package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
)

// ErrNotFound is returned by Get when no entry matches.
var ErrNotFound = errors.New("history entry not found")

// ErrAmbiguous is returned by Get when a prefix matches several entries.
var ErrAmbiguous = errors.New("history entry prefix is ambiguous")

// History manages run entries in a directory.
type History struct {
	dir string
	mu  sync.Mutex
}

// New creates a History rooted at dir. The directory is created on the
// first Record.
func New(dir string) (*History, error) {
	if dir == "" {
		return nil, errors.New("history directory cannot be empty")
	}
	return &History{dir: dir}, nil
}

// Dir returns the history directory.
func (h *History) Dir() string {
	return h.dir
}

// Record timestamps entry and persists it. An entry without an ID gets a
// fresh UUID; callers pass the logging run ID to correlate the two.
// Findings beyond MaxFindings are dropped.
func (h *History) Record(entry Entry) (*Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.Timestamp = time.Now().UTC()
	if len(entry.Findings) > MaxFindings {
		entry.Findings = entry.Findings[:MaxFindings]
		entry.Truncated = true
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	data, err := json.MarshalIndent(&entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}

	if err := atomic.WriteFile(filepath.Join(h.dir, entryFilename(&entry)), bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to write history entry: %w", err)
	}

	return &entry, nil
}

// entryFilename sorts chronologically: "20240615T103000Z-<id>.json".
func entryFilename(entry *Entry) string {
	return fmt.Sprintf("%s-%s.json", entry.Timestamp.Format("20060102T150405Z"), entry.ID)
}

// List returns entries newest first. A limit of 0 or less returns all.
func (h *History) List(limit int) ([]Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.readAll()
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Get returns the entry whose ID equals or starts with id.
func (h *History) Get(id string) (*Entry, error) {
	if id == "" {
		return nil, errors.New("entry ID cannot be empty")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries, err := h.readAll()
	if err != nil {
		return nil, err
	}

	var match *Entry
	for i := range entries {
		e := &entries[i]
		if e.ID == id {
			return e, nil
		}
		if strings.HasPrefix(e.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
			}
			match = e
		}
	}

	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return match, nil
}

// Cleanup removes entries older than retentionDays and returns how many
// were removed.
func (h *History) Cleanup(retentionDays int) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	files, err := h.entryFiles()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range files {
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(h.dir, f.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// entryFiles lists the JSON files of the directory. A missing directory
// has no entries.
func (h *History) entryFiles() ([]os.DirEntry, error) {
	files, err := os.ReadDir(h.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	out := files[:0]
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".json") {
			out = append(out, f)
		}
	}
	return out, nil
}

// readAll parses every entry, skipping files that do not parse.
func (h *History) readAll() ([]Entry, error) {
	files, err := h.entryFiles()
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(h.dir, f.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
