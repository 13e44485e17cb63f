package remote

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shotpath/internal/fileutil"
	"shotpath/internal/logging"
	"shotpath/internal/site"
)

// Mirror syncs by copying between a path and its site path, e.g.
// "/prod/a.exr" and "/bne_prod/a.exr" when the remote site is bne.
type Mirror struct {
	resolver site.Resolver
	root     string
	logger   *slog.Logger
}

// MirrorOption configures a Mirror.
type MirrorOption func(*Mirror)

// WithMirrorLogger sets the logger used for per-file progress.
func WithMirrorLogger(logger *slog.Logger) MirrorOption {
	return func(m *Mirror) {
		m.logger = logger
	}
}

// WithMirrorRoot treats root as the filesystem root that silos are mounted
// under. Paths outside root cannot be synced.
func WithMirrorRoot(root string) MirrorOption {
	return func(m *Mirror) {
		m.root = filepath.Clean(root)
	}
}

// NewMirror returns a Mirror that resolves the remote site through resolver.
func NewMirror(resolver site.Resolver, opts ...MirrorOption) *Mirror {
	m := &Mirror{resolver: resolver}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.OrNop(m.logger)
	return m
}

// Put copies local matches of pattern to the remote site.
func (m *Mirror) Put(ctx context.Context, pattern string) error {
	return m.transfer(ctx, pattern, true)
}

// Get copies remote matches of pattern to their local paths.
func (m *Mirror) Get(ctx context.Context, pattern string) error {
	return m.transfer(ctx, pattern, false)
}

func (m *Mirror) transfer(ctx context.Context, pattern string, push bool) error {
	remoteSite, err := m.resolver.DefaultRemote()
	if err != nil {
		return err
	}
	logical, err := m.logical(pattern)
	if err != nil {
		return err
	}
	remotePattern, err := site.SitePath(logical, remoteSite)
	if err != nil {
		return err
	}

	srcPattern, toSite := logical, true
	if !push {
		srcPattern, toSite = remotePattern, false
	}
	matches, err := filepath.Glob(m.physical(srcPattern))
	if err != nil {
		return fmt.Errorf("glob %s: %w", srcPattern, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("%s: %w", srcPattern, ErrNoMatches)
	}

	for _, src := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}
		srcLogical, err := m.logical(src)
		if err != nil {
			return err
		}
		var dstLogical string
		if toSite {
			dstLogical, err = site.SitePath(srcLogical, remoteSite)
		} else {
			dstLogical, err = site.LocalPath(srcLogical, remoteSite)
		}
		if err != nil {
			return err
		}
		dst := m.physical(dstLogical)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
		}
		if err := fileutil.CopyFileVerified(src, dst); err != nil {
			return fmt.Errorf("copy %s to %s: %w", src, dst, err)
		}
		m.logger.Debug("mirrored file",
			slog.String("src", src),
			slog.String("dst", dst),
			slog.String(logging.FieldSite, remoteSite),
		)
	}
	m.logger.Info("mirror sync complete",
		slog.String(logging.FieldPath, pattern),
		slog.String(logging.FieldSite, remoteSite),
		slog.Int("files", len(matches)),
	)
	return nil
}

// logical maps a filesystem path to its silo path by removing the root.
func (m *Mirror) logical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if m.root == "" || m.root == "/" {
		return abs, nil
	}
	rel, ok := strings.CutPrefix(abs, m.root)
	if !ok || (rel != "" && rel[0] != '/') {
		return "", fmt.Errorf("%s is outside mirror root %s", abs, m.root)
	}
	return rel, nil
}

func (m *Mirror) physical(logical string) string {
	if m.root == "" || m.root == "/" {
		return logical
	}
	return m.root + logical
}
