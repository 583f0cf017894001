//go:build !unix

package logging

// lock is a no-op on platforms without flock.
func (w *RotatingWriter) lock() error {
	return nil
}

func (w *RotatingWriter) unlock() {}
