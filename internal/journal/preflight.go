package journal

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// PreflightDir verifies dir exists, is writable, and has at least minFreeMB
// mebibytes available before a journal is opened there.
func PreflightDir(dir string, minFreeMB int) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("journal dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("journal dir %s: not a directory", dir)
	}
	if err := unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("journal dir %s: insufficient permissions: %w", dir, err)
	}
	if minFreeMB <= 0 {
		return nil
	}
	var fs unix.Statfs_t
	if err := unix.Statfs(dir, &fs); err != nil {
		return fmt.Errorf("journal dir %s: statfs: %w", dir, err)
	}
	freeMB := uint64(fs.Bavail) * uint64(fs.Bsize) / (1024 * 1024)
	if freeMB < uint64(minFreeMB) {
		return fmt.Errorf("journal dir %s: %d MiB free, need %d MiB", dir, freeMB, minFreeMB)
	}
	return nil
}
