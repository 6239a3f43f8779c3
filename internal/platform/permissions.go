package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// EnsureExecutable sets the owner-execute bit on path if it is not already set.
func EnsureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	perm := info.Mode().Perm()
	if perm&0o100 != 0 {
		return nil
	}
	if err := Chmod(path, perm|0o100); err != nil {
		return fmt.Errorf("setting owner-execute on %s: %w", path, err)
	}
	return nil
}
