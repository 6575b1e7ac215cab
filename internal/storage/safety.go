package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andst/staffboard/internal/errors"
)

const (
	// MinFreeSpace is the minimum free space required for write operations (10MB).
	MinFreeSpace = 10 * 1024 * 1024
)

// DiskSpaceInfo contains information about available disk space.
type DiskSpaceInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
}

// CheckDiskSpace checks if there's enough disk space at the given path.
// When free space cannot be determined the write is allowed.
func CheckDiskSpace(path string) error {
	info, err := GetDiskSpace(existingAncestor(path))
	if err != nil {
		return nil
	}
	if info.FreeBytes < MinFreeSpace {
		return fmt.Errorf("%w: %d MB free at %s, need at least %d MB",
			errors.ErrDiskFull, info.FreeBytes/(1024*1024), info.Path, MinFreeSpace/(1024*1024))
	}
	return nil
}

// EnsureDirectory creates a directory if it doesn't exist.
func EnsureDirectory(path string) error {
	if err := CheckDiskSpace(path); err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		if isDiskFullError(err) {
			return fmt.Errorf("%w: mkdir %s", errors.ErrDiskFull, path)
		}
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

// SafeWrite writes data to path atomically: it writes a temp file in the
// same directory, syncs it and renames it over path.
func SafeWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := CheckDiskSpace(dir); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, ".staffboard-*.tmp")
	if err != nil {
		return diskError("create temp file", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return diskError("write", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return diskError("sync", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

func diskError(op string, err error) error {
	if isDiskFullError(err) {
		return fmt.Errorf("%w: %s", errors.ErrDiskFull, op)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// existingAncestor walks up from path to the nearest directory that exists.
func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}
