package version

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"shotpath/internal/logging"
)

// GlobFunc expands a shell pattern into matching paths.
type GlobFunc func(pattern string) ([]string, error)

// Finder discovers sibling versions and takes of a path on disk.
type Finder struct {
	glob   GlobFunc
	logger *slog.Logger
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithGlob replaces the filesystem glob, mainly for tests.
func WithGlob(glob GlobFunc) FinderOption {
	return func(f *Finder) {
		if glob != nil {
			f.glob = glob
		}
	}
}

// WithLogger sets the logger used for glob failures.
func WithLogger(logger *slog.Logger) FinderOption {
	return func(f *Finder) {
		f.logger = logger
	}
}

// NewFinder returns a Finder backed by filepath.Glob unless overridden.
func NewFinder(opts ...FinderOption) *Finder {
	f := &Finder{glob: filepath.Glob}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(logging.OrNop(f.logger), "version")
	return f
}

func (f *Finder) expand(pattern string) []string {
	matches, err := f.glob(pattern)
	if err != nil {
		f.logger.Warn("glob failed",
			slog.String(logging.FieldPath, pattern),
			logging.Error(err),
		)
		return nil
	}
	sort.Strings(matches)
	return matches
}

// FindAllVersions maps every version found next to path to one existing path
// carrying it. When several paths share a version the greatest path wins.
func (f *Finder) FindAllVersions(path string) map[Version]string {
	out := make(map[Version]string)
	for _, match := range f.expand(VersionPattern(path)) {
		out[ExtractVersion(match)] = match
	}
	return out
}

// FindLatest returns the existing path carrying the highest version of path.
// Versions order by number then take (missing below any take); ties break on
// user initials then on the path itself.
func (f *Finder) FindLatest(path string) (string, bool) {
	versions := f.FindAllVersions(path)
	var (
		best    string
		bestVer Version
		found   bool
	)
	for v, p := range versions {
		if !found {
			best, bestVer, found = p, v, true
			continue
		}
		c := Compare(v, bestVer)
		if c > 0 || (c == 0 && strings.Compare(p, best) > 0) {
			best, bestVer = p, v
		}
	}
	return best, found
}

// NextAvailableTake returns one more than the highest take that exists on
// disk for the version of path, or 1 when none exists.
func (f *Finder) NextAvailableTake(path string) int {
	highest := 0
	for _, match := range f.expand(TakePattern(path)) {
		if take, ok := extractTake(match); ok && take > highest {
			highest = take
		}
	}
	return highest + 1
}

var defaultFinder = NewFinder()

// FindLatest is Finder.FindLatest on the local filesystem.
func FindLatest(path string) (string, bool) {
	return defaultFinder.FindLatest(path)
}

// FindAllVersions is Finder.FindAllVersions on the local filesystem.
func FindAllVersions(path string) map[Version]string {
	return defaultFinder.FindAllVersions(path)
}

// NextAvailableTake is Finder.NextAvailableTake on the local filesystem.
func NextAvailableTake(path string) int {
	return defaultFinder.NextAvailableTake(path)
}
