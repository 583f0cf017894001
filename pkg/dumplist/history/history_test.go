package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := New(""); err == nil {
		t.Fatal("New(\"\") error = nil, want error")
	}

	h, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if h == nil {
		t.Fatal("New() returned nil")
	}
}

func TestRecordKeepsRunID(t *testing.T) {
	t.Parallel()

	h, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	const id = "0f8fad5b-d9cb-469f-a165-70867728950e"
	entry, err := h.Record(Entry{ID: id, Operation: "generate"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if entry.ID != id {
		t.Errorf("ID = %q, want %q", entry.ID, id)
	}

	got, err := h.Get("0f8fad5b")
	if err != nil {
		t.Fatalf("Get(prefix) error = %v", err)
	}
	if got.ID != id || got.Operation != "generate" {
		t.Errorf("Get(prefix) = %+v, want the generate run", got)
	}
}

func TestRecordAndGet(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "history")
	h, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	entry, err := h.Record(Entry{
		Operation: "update",
		Root:      "/srv/www",
		ListPath:  "/srv/www/SHA256SUMS",
		Summary:   Summary{Files: 3, New: 1, Duration: time.Second},
		Failures:  []string{"hash ./locked: permission denied"},
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(entry.ID) != 36 {
		t.Errorf("ID = %q, want a UUID", entry.ID)
	}
	if entry.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}

	got, err := h.Get(entry.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Operation != "update" || got.Summary.New != 1 || len(got.Failures) != 1 {
		t.Errorf("Get() = %+v, want recorded entry", got)
	}

	got, err = h.Get(entry.ShortID())
	if err != nil {
		t.Fatalf("Get(prefix) error = %v", err)
	}
	if got.ID != entry.ID {
		t.Errorf("Get(prefix) ID = %q, want %q", got.ID, entry.ID)
	}

	if _, err := h.Get("does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := h.Get(""); err == nil {
		t.Error("Get(\"\") error = nil, want error")
	}
}

func TestRecordTruncatesFindings(t *testing.T) {
	t.Parallel()

	h, _ := New(t.TempDir())
	findings := make([]string, MaxFindings+10)
	for i := range findings {
		findings[i] = "./x is a new file."
	}

	entry, err := h.Record(Entry{Operation: "check", Findings: findings})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(entry.Findings) != MaxFindings || !entry.Truncated {
		t.Errorf("findings = %d truncated = %v, want %d true", len(entry.Findings), entry.Truncated, MaxFindings)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h, _ := New(dir)

	if entries, err := h.List(0); err != nil || len(entries) != 0 {
		t.Fatalf("List() on empty dir = %v, %v", entries, err)
	}

	for _, op := range []string{"generate", "check", "update"} {
		if _, err := h.Record(Entry{Operation: op}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := h.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() len = %d, want 3", len(entries))
	}
	if entries[0].Operation != "update" || entries[2].Operation != "generate" {
		t.Errorf("List() order = %s..%s, want newest first", entries[0].Operation, entries[2].Operation)
	}

	limited, err := h.List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) len = %d, want 2", len(limited))
	}
}

func TestGetMissingDirectory(t *testing.T) {
	t.Parallel()

	h, _ := New(filepath.Join(t.TempDir(), "absent"))
	if _, err := h.Get("abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestCleanup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	h, _ := New(dir)

	old, err := h.Record(Entry{Operation: "check"})
	if err != nil {
		t.Fatal(err)
	}
	recent, err := h.Record(Entry{Operation: "update"})
	if err != nil {
		t.Fatal(err)
	}

	oldTime := time.Now().AddDate(0, 0, -120)
	oldPath := filepath.Join(dir, entryFilename(old))
	if err := os.Chtimes(oldPath, oldTime, oldTime); err != nil {
		t.Fatal(err)
	}

	removed, err := h.Cleanup(90)
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Cleanup() removed = %d, want 1", removed)
	}

	entries, _ := h.List(0)
	if len(entries) != 1 || entries[0].ID != recent.ID {
		t.Errorf("remaining entries = %+v, want only %s", entries, recent.ID)
	}
}

func TestEntryFilename(t *testing.T) {
	t.Parallel()

	e := &Entry{ID: "abc", Timestamp: time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)}
	got := entryFilename(e)
	if got != "20240615T103000Z-abc.json" {
		t.Errorf("entryFilename() = %q", got)
	}
	if !strings.HasSuffix(got, ".json") {
		t.Error("missing .json suffix")
	}
}
