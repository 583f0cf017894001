package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"
)

// filePerms is applied to newly created listing files.
const filePerms = 0o644

// Load reads and parses the listing at path.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}

	inv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}

// Save serializes inv and replaces the listing at path atomically.
// An existing file keeps its permissions.
func Save(path string, inv *Inventory) error {
	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	if err := atomic.WriteFile(path, bytes.NewReader(Serialize(inv))); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}

	if isNew {
		if err := os.Chmod(path, filePerms); err != nil {
			return fmt.Errorf("failed to set listing permissions: %w", err)
		}
	}
	return nil
}
