//go:build windows

package storage

import (
	"errors"
	"strings"
)

// GetDiskSpace is not implemented on Windows; writes are always allowed.
func GetDiskSpace(path string) (*DiskSpaceInfo, error) {
	return nil, errors.New("disk space check not supported on windows")
}

// isDiskFullError checks if an error indicates disk full condition.
func isDiskFullError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not enough space") || strings.Contains(msg, "disk full")
}
