package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteSequence writes one small file per frame, substituting the zero padded
// frame number for the run of '#' in pattern ("plate.####.exr").
func WriteSequence(t testing.TB, pattern string, frames ...int) []string {
	t.Helper()

	start := strings.IndexByte(pattern, '#')
	if start < 0 {
		t.Fatalf("sequence pattern %q has no '#' frame token", pattern)
	}
	end := start
	for end < len(pattern) && pattern[end] == '#' {
		end++
	}

	paths := make([]string, 0, len(frames))
	for _, frame := range frames {
		path := pattern[:start] + fmt.Sprintf("%0*d", end-start, frame) + pattern[end:]
		WriteFile(t, path, 16)
		paths = append(paths, path)
	}
	return paths
}
