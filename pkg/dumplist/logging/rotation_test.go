package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/logging"
)

func countFiles(t *testing.T, dir, prefix string) int {
	t.Helper()
	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	n := 0
	for _, f := range files {
		if strings.HasPrefix(f.Name(), prefix) {
			n++
		}
	}
	return n
}

func TestRotationBySize(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "size_rotate.log")

	writer, err := logging.NewRotatingWriter(logPath, logging.RotationConfig{
		MaxSize:    512,
		MaxBackups: 3,
	})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}

	for i := 0; i < 20; i++ {
		if _, err := writer.Write([]byte(strings.Repeat("x", 50) + "\n")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if n := countFiles(t, tempDir, "size_rotate"); n < 2 {
		t.Errorf("expected at least 2 log files after rotation, got %d", n)
	}
}

func TestRotationPrunesOldBackups(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "app.log")

	old := time.Now().Add(-10 * 24 * time.Hour)
	for i, name := range []string{"app.2020-01-01-000000.log", "app.2020-01-02-000000.log", "app.2020-01-03-000000.log"} {
		p := filepath.Join(tempDir, name)
		if err := os.WriteFile(p, []byte("old\n"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		mt := old.Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(p, mt, mt); err != nil {
			t.Fatalf("Chtimes() error = %v", err)
		}
	}
	unrelated := filepath.Join(tempDir, "other.log")
	if err := os.WriteFile(unrelated, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	writer, err := logging.NewRotatingWriter(logPath, logging.RotationConfig{MaxBackups: 1})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Current file plus the newest backup.
	if n := countFiles(t, tempDir, "app."); n != 2 {
		t.Errorf("expected 2 app log files, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "app.2020-01-03-000000.log")); err != nil {
		t.Errorf("newest backup should survive: %v", err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Errorf("unrelated file should survive: %v", err)
	}
}

func TestRotationByAge(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	stale := filepath.Join(tempDir, "aged.2020-01-01-000000.log")
	if err := os.WriteFile(stale, []byte("old\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	mt := time.Now().Add(-40 * 24 * time.Hour)
	if err := os.Chtimes(stale, mt, mt); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	writer, err := logging.NewRotatingWriter(filepath.Join(tempDir, "aged.log"), logging.RotationConfig{MaxAge: 30})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer writer.Close()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale backup should be removed, stat error = %v", err)
	}
}

func TestRotationDirCreation(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "nested", "deeper", "app.log")

	writer, err := logging.NewRotatingWriter(logPath, logging.DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	if _, err := writer.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if string(content) != "hello\n" {
		t.Errorf("content = %q, want %q", content, "hello\n")
	}
}
