package types

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Path
	}{
		{name: "top level file", input: "a.txt", want: "./a.txt"},
		{name: "nested file", input: filepath.Join("sub", "b.txt"), want: "./sub/b.txt"},
		{name: "already prefixed", input: "./a.txt", want: "./a.txt"},
		{name: "leading slash", input: "/a.txt", want: "./a.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.input))
		})
	}
}

func TestPath_Helpers(t *testing.T) {
	p := Path("./sub/dir/b.txt")

	assert.Equal(t, "sub/dir/b.txt", p.Rel())
	assert.Equal(t, 3, p.Depth())
	assert.Equal(t, Path("./sub/dir"), p.Parent())
	assert.Equal(t, "b.txt", p.Base())
	assert.Equal(t, filepath.Join("/root", "sub", "dir", "b.txt"), p.OSPath("/root"))

	assert.Equal(t, Path("."), Path("./a.txt").Parent())
	assert.Equal(t, Path("./sub"), p.Parent().Parent())
	assert.Equal(t, Path("."), p.Parent().Parent().Parent())
	assert.Equal(t, NormalizePath(filepath.Join("sub", "dir")), p.Parent())
	assert.Equal(t, 1, Path("./a.txt").Depth())
}

func TestPath_IsHidden(t *testing.T) {
	tests := []struct {
		path Path
		want bool
	}{
		{path: "./a.txt", want: false},
		{path: "./.git", want: true},
		{path: "./.git/config", want: true},
		{path: "./sub/.cache/x", want: true},
		{path: "./sub/file.tar.gz", want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.IsHidden())
		})
	}
}

func TestFileError(t *testing.T) {
	inner := errors.New("permission denied")
	err := &FileError{Path: "./a.txt", Op: "hash", Err: inner}

	assert.Equal(t, "hash ./a.txt: permission denied", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain bytes", input: "1024", want: 1024},
		{name: "binary megabytes", input: "10MiB", want: 10 * 1024 * 1024},
		{name: "decimal megabytes", input: "10MB", want: 10 * 1000 * 1000},
		{name: "whitespace", input: "  1KiB ", want: 1024},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-1M", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(0))
	assert.Equal(t, "1.0 KiB", FormatSize(1024))
	assert.Equal(t, "1,234,567", FormatCount(1234567))
}
