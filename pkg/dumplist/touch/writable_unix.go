//go:build unix

package touch

import "golang.org/x/sys/unix"

// writable reports whether the current process may write to dir.
func writable(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
