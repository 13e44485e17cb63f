package entity

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"shotpath/internal/logging"
)

// ScanResult is what a Sequence found on disk at ScannedAt.
type ScanResult struct {
	Paths     []string
	Frames    []int
	Padding   int
	ScannedAt time.Time
}

// Scan returns the cached scan, scanning the disk first if needed.
func (s *Sequence) Scan() *ScanResult {
	if s.scan == nil {
		return s.Rescan()
	}
	return s.scan
}

// Cached returns the current scan without touching the disk.
func (s *Sequence) Cached() (*ScanResult, bool) {
	return s.scan, s.scan != nil
}

// Invalidate drops the cached scan.
func (s *Sequence) Invalidate() {
	s.scan = nil
}

// Rescan globs the disk for frames and replaces the cached scan. When frames
// are found their digit width becomes the sequence padding; if frames
// disagree the first one wins and the conflict is logged.
func (s *Sequence) Rescan() *ScanResult {
	result := &ScanResult{ScannedAt: time.Now()}
	if !s.valid {
		s.scan = result
		return result
	}

	paths, err := filepath.Glob(s.SyncPath())
	if err != nil {
		s.opts.logger.Warn("sequence glob failed",
			slog.String(logging.FieldReferencePath, s.ReferencePath()),
			logging.Error(err),
		)
	}
	sort.Strings(paths)
	result.Paths = paths

	mixed := false
	for _, p := range paths {
		m := frameNumberRE.FindStringSubmatch(p)
		if m == nil {
			continue
		}
		frame, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		result.Frames = append(result.Frames, frame)
		switch width := len(m[2]); {
		case result.Padding == 0:
			result.Padding = width
		case result.Padding != width:
			mixed = true
		}
	}
	sort.Ints(result.Frames)

	if mixed {
		s.opts.logger.Error("multiple paddings detected on sequence",
			slog.String(logging.FieldPath, s.path),
			slog.Int("padding", result.Padding),
		)
	}
	if result.Padding > 0 {
		s.padding = result.Padding
	}
	s.scan = result
	return result
}
