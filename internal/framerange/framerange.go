// Package framerange finds the first and last frame of an image sequence on
// disk from any one of its frame paths, e.g. "render.1001.exr".
//
// The frame number is taken to be the second-to-last dot separated segment of
// the path. This is independent of the richer token parsing in the entity
// package and works on plain frame paths only.
package framerange

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrNoFrameSlot is returned for paths with fewer than three dot
	// separated segments.
	ErrNoFrameSlot = errors.New("path has no frame number segment")
	// ErrNoFrames is returned when no numbered frame exists on disk.
	ErrNoFrames = errors.New("no frames found")
)

// ReplaceFrameNumberByWildcard replaces the second-to-last dot separated
// segment of path with wildcard. Paths with fewer than three segments are
// returned unchanged.
func ReplaceFrameNumberByWildcard(path, wildcard string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 3 {
		return path
	}
	parts[len(parts)-2] = wildcard
	return strings.Join(parts, ".")
}

// GlobFrameNumber returns path with its frame segment replaced by "*". ok is
// false when path has no frame segment.
func GlobFrameNumber(path string) (string, bool) {
	if strings.Count(path, ".") < 2 {
		return "", false
	}
	return ReplaceFrameNumberByWildcard(path, "*"), true
}

// CalcRange returns the lowest and highest frame numbers present on disk for
// the sequence path belongs to. Matches whose frame segment is not a number
// are ignored.
func CalcRange(path string) (first, last int, err error) {
	if _, ok := GlobFrameNumber(path); !ok {
		return 0, 0, fmt.Errorf("calc range %s: %w", path, ErrNoFrameSlot)
	}
	pattern, ok := GlobFrameNumber(resolve(path))
	if !ok {
		return 0, 0, fmt.Errorf("calc range %s: %w", path, ErrNoFrameSlot)
	}
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, 0, fmt.Errorf("calc range %s: %w", path, err)
	}

	found := false
	for _, match := range matches {
		parts := strings.Split(match, ".")
		frame, convErr := strconv.Atoi(parts[len(parts)-2])
		if convErr != nil {
			continue
		}
		if !found {
			first, last, found = frame, frame, true
			continue
		}
		first = min(first, frame)
		last = max(last, frame)
	}
	if !found {
		return 0, 0, fmt.Errorf("calc range %s: %w", path, ErrNoFrames)
	}
	return first, last, nil
}

// resolve makes path absolute and follows symlinks in its directory. The
// frame file itself usually does not exist, so only the directory is
// evaluated; failures fall back to the absolute path.
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	dir, name := filepath.Split(abs)
	if realDir, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(realDir, name)
	}
	return abs
}
