// Package digest computes the content fingerprints stored in an inventory:
// the parity token (MD5 and SHA-1 combined) and the SHA-256 digest.
//
// Every digest streams the file from its own open handle. MD5 and SHA-1 are
// computed concurrently for the parity token; SHA-256 is a separate pass.
package digest

import (
	"context"
	"crypto/md5"  //nolint:gosec // part of the on-disk parity format
	"crypto/sha1" //nolint:gosec // part of the on-disk parity format
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sync/atomic"

	"github.com/NewEraCracker/dumplist/pkg/dumplist/types"
	"golang.org/x/sync/errgroup"
)

// ParityLength is the length of an encoded parity token.
const ParityLength = 48

// SHA256Length is the length of a hex encoded SHA-256 digest.
const SHA256Length = sha256.Size * 2

// Provider produces the fingerprints for a file on disk.
type Provider interface {
	// Parity returns the parity token for the file at path.
	Parity(ctx context.Context, path string) (string, error)

	// SHA256 returns the lowercase hex SHA-256 digest of the file at path.
	SHA256(ctx context.Context, path string) (string, error)
}

// FileProvider streams files from the local filesystem.
// It is safe for concurrent use.
type FileProvider struct {
	bytesRead atomic.Int64
}

// NewFileProvider creates a provider reading from the local filesystem.
func NewFileProvider() *FileProvider {
	return &FileProvider{}
}

// BytesRead returns the total number of bytes read by all digests so far.
func (p *FileProvider) BytesRead() int64 {
	return p.bytesRead.Load()
}

// Parity computes MD5 and SHA-1 concurrently and encodes them as a token.
func (p *FileProvider) Parity(ctx context.Context, path string) (string, error) {
	var md5Sum, sha1Sum []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sum, err := p.hashFile(gctx, path, md5.New())
		md5Sum = sum
		return err
	})
	g.Go(func() error {
		sum, err := p.hashFile(gctx, path, sha1.New())
		sha1Sum = sum
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	return EncodeParity(md5Sum, sha1Sum), nil
}

// SHA256 computes the hex encoded SHA-256 digest of a file.
func (p *FileProvider) SHA256(ctx context.Context, path string) (string, error) {
	sum, err := p.hashFile(ctx, path, sha256.New())
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

// hashFile streams a file into h and returns the digest.
func (p *FileProvider) hashFile(ctx context.Context, path string, h hash.Hash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	n, err := io.Copy(h, &ctxReader{ctx: ctx, r: file})
	p.bytesRead.Add(n)
	if err != nil {
		return nil, fmt.Errorf("failed to hash file %s: %w", path, err)
	}

	return h.Sum(nil), nil
}

// EncodeParity concatenates the raw MD5 and SHA-1 digests and encodes them
// with unpadded URL-safe base64.
func EncodeParity(md5Sum, sha1Sum []byte) string {
	raw := make([]byte, 0, len(md5Sum)+len(sha1Sum))
	raw = append(raw, md5Sum...)
	raw = append(raw, sha1Sum...)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Record builds a complete FileRecord for the file at fsPath.
// The parity token is computed before the SHA-256 digest.
func Record(ctx context.Context, p Provider, fsPath string, mtime int64) (types.FileRecord, error) {
	parity, err := p.Parity(ctx, fsPath)
	if err != nil {
		return types.FileRecord{}, err
	}

	sum, err := p.SHA256(ctx, fsPath)
	if err != nil {
		return types.FileRecord{}, err
	}

	return types.FileRecord{
		Mtime:  mtime,
		Parity: parity,
		SHA256: sum,
	}, nil
}

// ctxReader stops a copy once its context is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Ensure FileProvider implements Provider.
var _ Provider = (*FileProvider)(nil)
