package entity

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"shotpath/internal/logging"
	"shotpath/internal/pathutil"
	"shotpath/internal/site"
)

var (
	sequenceRE = regexp.MustCompile(`^(.*)[.]` +
		`(` +
		`#+` + // hashes
		`|%\d\dd` + // %04d
		`|\$F\d` + // $F4
		`|@+` + // @@@@
		`|\d+-\d+#` + // 1-10#
		`|\d+` + // frame number
		`|\*` +
		`)` +
		`([.][^/]*)`)
	frameNumberRE = regexp.MustCompile(`^(.*)[.](\d+)([.][^/]*)`)
)

// nonSequenceExtensions are container formats that hold every frame in one
// file and are never treated as sequences.
var nonSequenceExtensions = []string{".mov", ".mp4"}

// Sequence is a set of numbered frame files sharing a base path and an
// extension, written with a frame token: "/a/b/c.####.exr", "c.%04d.exr",
// "c.$F4.exr", "c.@@@@.exr", "c.1-10#.exr", "c.0001.exr" or "c.*.exr".
type Sequence struct {
	opts options

	path         string
	basepath     string
	framePattern string
	ext          string
	valid        bool
	padding      int

	scan *ScanResult
}

// NewSequence parses path. The result may be invalid; check IsValid.
func NewSequence(path string, opts ...Option) *Sequence {
	return newSequence(path, newOptions(opts))
}

func newSequence(path string, o options) *Sequence {
	s := &Sequence{opts: o, path: path}
	m := sequenceRE.FindStringSubmatch(path)
	if m == nil {
		return s
	}
	s.ext = m[3]
	for _, ext := range nonSequenceExtensions {
		if strings.EqualFold(s.ext, ext) {
			return s
		}
	}
	s.basepath = m[1]
	s.framePattern = m[2]
	s.padding = tokenPadding(m[2])
	s.valid = true
	return s
}

// tokenPadding returns the digit width a frame token stands for.
func tokenPadding(token string) int {
	var digits string
	switch {
	case strings.HasPrefix(token, "%"):
		digits = strings.TrimSuffix(token[1:], "d")
	case strings.HasPrefix(token, "$F"):
		digits = token[2:]
	default:
		return len(token)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return len(token)
	}
	return n
}

func (*Sequence) sealed() {}

func (*Sequence) Kind() Kind { return KindSequence }

// IsValid reports whether the path parsed as a sequence.
func (s *Sequence) IsValid() bool { return s.valid }

func (s *Sequence) Path() string { return s.path }

// Basepath returns the path up to the frame token: "/a/b/c.0001.exr" gives
// "/a/b/c".
func (s *Sequence) Basepath() string { return s.basepath }

// Basename returns the name up to the frame token: "/a/b/c.0001.exr" gives
// "c".
func (s *Sequence) Basename() string {
	if s.basepath == "" {
		return ""
	}
	return filepath.Base(s.basepath)
}

// FramePattern returns the frame token the sequence was created with.
func (s *Sequence) FramePattern() string { return s.framePattern }

func (s *Sequence) Extension() string { return s.ext }

// Pattern renders the sequence with token in the frame slot. An empty token
// uses the frame token the path was written with.
func (s *Sequence) Pattern(token string) string {
	if token == "" {
		token = s.framePattern
	}
	return s.basepath + "." + token + s.ext
}

// PatternFor renders the path of one frame, zero padded to the current
// padding.
func (s *Sequence) PatternFor(frame int) string {
	return s.Pattern(fmt.Sprintf("%0*d", s.padding, frame))
}

// Padding returns the frame digit width, as found on disk when frames exist
// and as given by the frame token otherwise.
func (s *Sequence) Padding() int {
	s.Scan()
	return s.padding
}

// SetPadding overrides the frame digit width used by PatternFor.
func (s *Sequence) SetPadding(padding int) { s.padding = padding }

func (s *Sequence) SyncPath() string { return s.Pattern("*") }

func (s *Sequence) ReferencePath() string { return filepath.Clean(s.Pattern("#")) }

func (s *Sequence) ReferenceName() string { return filepath.Base(s.ReferencePath()) }

// Paths returns the sorted files matching the sequence.
func (s *Sequence) Paths() []string { return slices.Clone(s.Scan().Paths) }

// Names returns the file names of Paths.
func (s *Sequence) Names() []string {
	paths := s.Scan().Paths
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

// Frames returns the sorted frame numbers present on disk.
func (s *Sequence) Frames() []int { return slices.Clone(s.Scan().Frames) }

// StartFrame returns the first frame on disk.
func (s *Sequence) StartFrame() (int, bool) {
	frames := s.Scan().Frames
	if len(frames) == 0 {
		return 0, false
	}
	return frames[0], true
}

// EndFrame returns the last frame on disk.
func (s *Sequence) EndFrame() (int, bool) {
	frames := s.Scan().Frames
	if len(frames) == 0 {
		return 0, false
	}
	return frames[len(frames)-1], true
}

func (s *Sequence) Exists() bool { return len(s.Scan().Paths) > 0 }

func (s *Sequence) ExistsLocally() bool { return s.Exists() }

func (s *Sequence) ExistsOnSite(name string) (bool, error) {
	p, err := site.SitePath(s.ReferencePath(), name)
	if err != nil {
		return false, err
	}
	return newSequence(p, s.opts).Exists(), nil
}

func (s *Sequence) ExistsOnRemoteSite() (bool, error) {
	return s.opts.existsOnRemoteSite(s)
}

// Owner returns the owner of the first frame, or "" when no frame exists.
func (s *Sequence) Owner() (string, error) {
	paths := s.Scan().Paths
	if len(paths) == 0 {
		return "", nil
	}
	return pathutil.Owner(paths[0])
}

func (s *Sequence) SizeInMegabytes() float64 {
	var total int64
	for _, p := range s.Scan().Paths {
		total += pathutil.SizeInBytes(p)
	}
	return pathutil.BytesToMegabytes(total)
}

// Copy copies every frame to the sequence named by dest, which must itself
// parse as a sequence. Frames are renumbered with dest's own padding. The
// first failure is logged and stops the copy.
func (s *Sequence) Copy(dest string) bool {
	target := newSequence(dest, s.opts)
	if !target.IsValid() {
		s.opts.logger.Error("invalid sequence path, no copy has been made",
			slog.String(logging.FieldPath, dest),
		)
		return false
	}
	for _, frame := range s.Frames() {
		if !s.opts.copy(s.PatternFor(frame), target.PatternFor(frame)) {
			return false
		}
	}
	return true
}

// CopyBasepath copies every frame to destBase.<frame>.<ext>, keeping the
// source padding.
func (s *Sequence) CopyBasepath(destBase string) bool {
	for _, frame := range s.Frames() {
		token := fmt.Sprintf("%0*d", s.padding, frame)
		if !s.opts.copy(s.Pattern(token), destBase+"."+token+s.ext) {
			return false
		}
	}
	return true
}

func (s *Sequence) SyncToRemoteSite(ctx context.Context) error {
	return s.opts.put(ctx, s.SyncPath())
}

// SyncLocally fetches the sequence from the remote site and drops the scan
// cache so the next query sees the new frames.
func (s *Sequence) SyncLocally(ctx context.Context) error {
	err := s.opts.get(ctx, s.SyncPath())
	s.Invalidate()
	return err
}

func (s *Sequence) String() string { return "Sequence(" + s.path + ")" }
