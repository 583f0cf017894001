package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"plain command", []string{"check"}, []string{"check"}},
		{"single dash", []string{"-check"}, []string{"check"}},
		{"double dash", []string{"--update"}, []string{"update"}},
		{"with flags", []string{"-v", "--generate", "-o", "json"}, []string{"-v", "generate", "-o", "json"}},
		{"only first command", []string{"--test", "--touchdir"}, []string{"test", "--touchdir"}},
		{"command before dashed name", []string{"check", "--update"}, []string{"check", "--update"}},
		{"other flags untouched", []string{"--verbose", "history"}, []string{"--verbose", "history"}},
		{"unknown left alone", []string{"--bogus"}, []string{"--bogus"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := make([]string, len(tt.args))
			copy(args, tt.args)
			assert.Equal(t, tt.want, normalizeArgs(args))
			assert.Equal(t, tt.args, args, "input must not be modified")
		})
	}
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 0, exitCode(&buf, nil))
	assert.Empty(t, buf.String())

	buf.Reset()
	assert.Equal(t, 1, exitCode(&buf, usageErrorf("missing command")))
	assert.Contains(t, buf.String(), "Error: missing command")
	assert.Contains(t, buf.String(), "Usage:")

	buf.Reset()
	assert.Equal(t, 1, exitCode(&buf, errors.New("boom")))
	assert.Equal(t, "Error: boom\n", buf.String())

	buf.Reset()
	assert.Equal(t, 1, exitCode(&buf, fmt.Errorf("%w: 2", types.ErrFilesFailed)))
}

func TestUsageErrors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{}},
		{"unknown command", []string{"verify"}},
		{"extra argument", []string{"check", "extra"}},
		{"unknown flag", []string{"check", "--frobnicate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 1, run(tt.args))
		})
	}

	_, err := os.Stat(filepath.Join(dir, "SHA256SUMS"))
	assert.True(t, os.IsNotExist(err), "usage errors must not write a listing")
}

// runCLI runs the CLI in the current directory with plain output and no
// history, returning stdout and the exit status.
func runCLI(t *testing.T, args ...string) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	saved := stdout
	stdout = &buf
	defer func() { stdout = saved }()

	// Flag values persist on the shared command tree, so every run resets
	// them before the caller's own arguments.
	defaults := []string{"--no-history", "-q", "-o", "plain", "-l", "SHA256SUMS"}
	code := run(append(defaults, args...))
	return buf.String(), code
}

func writeTreeFile(t *testing.T, root, rel, content string, mtime int64) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	ts := time.Unix(mtime, 0)
	require.NoError(t, os.Chtimes(path, ts, ts))
}

func TestCommandsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeTreeFile(t, dir, "a.txt", "hello", 1000)
	writeTreeFile(t, dir, "sub/c.txt", "world", 2000)

	out, code := runCLI(t, "generate")
	require.Equal(t, 0, code)
	assert.Empty(t, out)

	listing, err := os.ReadFile(filepath.Join(dir, "SHA256SUMS"))
	require.NoError(t, err)
	assert.Contains(t, string(listing), "; 1000 ")
	assert.Contains(t, string(listing), " *sub/c.txt\n")
	assert.NotContains(t, string(listing), "*./")

	out, code = runCLI(t, "--test")
	require.Equal(t, 0, code)
	assert.Empty(t, out)

	writeTreeFile(t, dir, "a.txt", "hello again", 3000)
	writeTreeFile(t, dir, "b.txt", "new", 1500)

	out, code = runCLI(t, "check")
	require.Equal(t, 0, code, "findings do not change the exit status")
	assert.Equal(t, "./b.txt is a new file.\n./a.txt has been modified.\n", out)

	require.NoError(t, os.Remove(filepath.Join(dir, "sub", "c.txt")))

	out, code = runCLI(t, "check")
	require.Equal(t, 0, code)
	assert.Equal(t, "./b.txt is a new file.\n./a.txt has been modified.\n./sub/c.txt does not exist.\n", out)

	_, code = runCLI(t, "update")
	require.Equal(t, 0, code)

	out, code = runCLI(t, "test")
	require.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestAbsoluteListFlag(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeTreeFile(t, dir, "a.txt", "hello", 1000)
	listPath := filepath.Join(dir, "SUMS")

	_, code := runCLI(t, "generate", "-l", listPath)
	require.Equal(t, 0, code)

	listing, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.NotContains(t, string(listing), "*SUMS")

	out, code := runCLI(t, "check", "-l", listPath)
	require.Equal(t, 0, code)
	assert.Empty(t, out)
}

func TestCheckWithMalformedListing(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeTreeFile(t, dir, "a.txt", "hello", 1000)
	listPath := filepath.Join(dir, "SHA256SUMS")
	require.NoError(t, os.WriteFile(listPath, []byte("garbage\n"), 0o644))

	_, code := runCLI(t, "check")
	assert.Equal(t, 1, code)

	_, code = runCLI(t, "update")
	assert.Equal(t, 1, code)

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.Equal(t, "garbage\n", string(data), "a malformed listing is left untouched")
}

func TestTouchdirCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	writeTreeFile(t, dir, "sub/f.txt", "x", 5000)

	_, code := runCLI(t, "touchdir")
	require.Equal(t, 0, code)

	info, err := os.Stat(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), info.ModTime().Unix())

	_, err = os.Stat(filepath.Join(dir, "SHA256SUMS"))
	assert.True(t, os.IsNotExist(err), "touchdir does not write a listing")
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "/srv", truncateString("/srv", 10))
	assert.Equal(t, "...c/d", truncateString("/a/b/c/d", 6))
	assert.Equal(t, "d", truncateString("/a/b/c/d", 1))
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
