// Package remote moves files matching a glob pattern between this site and
// its remote site. Mirror copies through the site-prefixed mount of the
// remote silo; S3 stages files in a bucket shared by both sites.
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"shotpath/internal/config"
	"shotpath/internal/logging"
	"shotpath/internal/site"
)

var (
	// ErrNoTransport is returned when no sync backend is configured.
	ErrNoTransport = errors.New("no remote transport configured")
	// ErrNoMatches is returned when a sync pattern matches nothing.
	ErrNoMatches = errors.New("pattern matched no files")
)

// Transport pushes local files to the remote site and pulls them back.
// Patterns are shell globs; only the final path element may hold wildcards.
type Transport interface {
	Put(ctx context.Context, pattern string) error
	Get(ctx context.Context, pattern string) error
}

// New returns the transport selected by cfg.Remote.Backend.
func New(ctx context.Context, cfg *config.Config, resolver site.Resolver, logger *slog.Logger) (Transport, error) {
	if cfg == nil {
		return nil, ErrNoTransport
	}
	logger = logging.NewComponentLogger(logging.OrNop(logger), "remote")

	switch cfg.Remote.Backend {
	case config.BackendMirror:
		opts := []MirrorOption{WithMirrorLogger(logger)}
		if cfg.Remote.MirrorRoot != "" {
			opts = append(opts, WithMirrorRoot(cfg.Remote.MirrorRoot))
		}
		return NewMirror(resolver, opts...), nil
	case config.BackendS3:
		transport, err := NewS3FromConfig(ctx, cfg.Remote, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 transport: %w", err)
		}
		return transport, nil
	case config.BackendNone, "":
		return nil, ErrNoTransport
	default:
		return nil, fmt.Errorf("remote backend %q: %w", cfg.Remote.Backend, ErrNoTransport)
	}
}
