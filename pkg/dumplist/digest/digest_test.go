package digest

import (
	"context"
	"crypto/md5"  //nolint:gosec // test vectors
	"crypto/sha1" //nolint:gosec // test vectors
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEncodeParity(t *testing.T) {
	md5Sum := md5.Sum([]byte("hello"))   //nolint:gosec // test vector
	sha1Sum := sha1.Sum([]byte("hello")) //nolint:gosec // test vector

	token := EncodeParity(md5Sum[:], sha1Sum[:])

	assert.Len(t, token, ParityLength)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")
}

func TestFileProvider_Parity(t *testing.T) {
	path := writeFile(t, "hello world")
	p := NewFileProvider()

	got, err := p.Parity(context.Background(), path)
	require.NoError(t, err)

	md5Sum := md5.Sum([]byte("hello world"))   //nolint:gosec // test vector
	sha1Sum := sha1.Sum([]byte("hello world")) //nolint:gosec // test vector
	assert.Equal(t, EncodeParity(md5Sum[:], sha1Sum[:]), got)
	assert.Equal(t, int64(2*len("hello world")), p.BytesRead())
}

func TestFileProvider_SHA256(t *testing.T) {
	content := strings.Repeat("abc", 100000)
	path := writeFile(t, content)

	got, err := NewFileProvider().SHA256(context.Background(), path)
	require.NoError(t, err)

	want := sha256.Sum256([]byte(content))
	assert.Equal(t, hex.EncodeToString(want[:]), got)
	assert.Len(t, got, SHA256Length)
}

func TestFileProvider_EmptyFile(t *testing.T) {
	path := writeFile(t, "")

	rec, err := Record(context.Background(), NewFileProvider(), path, 1000)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), rec.Mtime)
	assert.Len(t, rec.Parity, ParityLength)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", rec.SHA256)
}

func TestFileProvider_MissingFile(t *testing.T) {
	p := NewFileProvider()
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := p.Parity(context.Background(), missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = p.SHA256(context.Background(), missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileProvider_Cancelled(t *testing.T) {
	path := writeFile(t, "data")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileProvider().SHA256(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
