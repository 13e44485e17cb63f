package pathutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const bytesPerMegabyte = 1024.0 * 1024.0

// SizeInBytes returns the size of a file, or the total size of everything
// below a directory. Missing or unreadable paths count as zero.
func SizeInBytes(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}
	var total int64
	for _, entry := range entries {
		total += SizeInBytes(filepath.Join(path, entry.Name()))
	}
	return total
}

// SizeInMegabytes is SizeInBytes expressed in MiB.
func SizeInMegabytes(path string) float64 {
	return float64(SizeInBytes(path)) / bytesPerMegabyte
}

// BytesToMegabytes converts a byte count to MiB.
func BytesToMegabytes(n int64) float64 {
	return float64(n) / bytesPerMegabyte
}

// EnsureFolder creates folder and any missing parents. An existing folder is
// not an error; an existing file at that path is.
func EnsureFolder(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("create folder %q: %w", folder, err)
	}
	return nil
}
