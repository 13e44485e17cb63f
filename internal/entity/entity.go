package entity

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"shotpath/internal/fileutil"
	"shotpath/internal/logging"
	"shotpath/internal/remote"
	"shotpath/internal/site"
)

// Kind tags the concrete type behind an Entity.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Entity is the behaviour shared by files and sequences.
type Entity interface {
	Kind() Kind
	// Path returns the path the entity was created from.
	Path() string
	ReferencePath() string
	ReferenceName() string
	Basename() string
	Extension() string
	// Paths lists the files backing the entity.
	Paths() []string
	// SyncPath is the glob handed to a transport when syncing.
	SyncPath() string
	Exists() bool
	ExistsLocally() bool
	ExistsOnSite(site string) (bool, error)
	ExistsOnRemoteSite() (bool, error)
	Owner() (string, error)
	SizeInMegabytes() float64
	Copy(dest string) bool
	CopyBasepath(destBase string) bool
	Info() Info
	SyncToRemoteSite(ctx context.Context) error
	SyncLocally(ctx context.Context) error

	sealed()
}

// Key is a comparable identity for an Entity, suitable as a map key.
type Key struct {
	Kind Kind
	Ref  string
}

// KeyOf returns the identity of e.
func KeyOf(e Entity) Key {
	return Key{Kind: e.Kind(), Ref: e.ReferencePath()}
}

// Equal reports whether a and b are of the same kind and share a reference
// path. A File never equals a Sequence.
func Equal(a, b Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return KeyOf(a) == KeyOf(b)
}

// IsSequence reports whether e is a Sequence.
func IsSequence(e Entity) bool {
	return e != nil && e.Kind() == KindSequence
}

// IsFile reports whether e is a File.
func IsFile(e Entity) bool {
	return e != nil && e.Kind() == KindFile
}

// New returns a Sequence when path parses as one, and a File otherwise.
func New(path string, opts ...Option) Entity {
	return newEntity(path, newOptions(opts))
}

func newEntity(path string, o options) Entity {
	if seq := newSequence(path, o); seq.IsValid() {
		return seq
	}
	return newFile(path, o)
}

// List returns one entity per reference path found in folder, sorted by
// reference path. Frames of one sequence collapse into a single Sequence.
func List(folder string, opts ...Option) ([]Entity, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)

	seen := make(map[string]struct{}, len(entries))
	out := make([]Entity, 0, len(entries))
	for _, entry := range entries {
		e := newEntity(filepath.Join(folder, entry.Name()), o)
		ref := e.ReferencePath()
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReferencePath() < out[j].ReferencePath()
	})
	return out, nil
}

// Option configures an Entity.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	sites     site.Resolver
	transport remote.Transport
}

// WithLogger sets the logger used for copy and scan problems.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSites sets the site resolver used by ExistsOnRemoteSite.
func WithSites(r site.Resolver) Option {
	return func(o *options) {
		o.sites = r
	}
}

// WithTransport sets the transport used by the sync operations.
func WithTransport(t remote.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.NewComponentLogger(logging.OrNop(o.logger), "entity")
	return o
}

func (o options) copy(src, dst string) bool {
	if err := fileutil.CopyFile(src, dst); err != nil {
		o.logger.Error("error during file copy",
			slog.String("src", src),
			slog.String("dst", dst),
			logging.Error(err),
		)
		return false
	}
	return true
}

func (o options) existsOnRemoteSite(e Entity) (bool, error) {
	remoteSite, err := o.sites.DefaultRemote()
	if err != nil {
		return false, err
	}
	return e.ExistsOnSite(remoteSite)
}

func (o options) put(ctx context.Context, pattern string) error {
	if o.transport == nil {
		return remote.ErrNoTransport
	}
	return o.transport.Put(ctx, pattern)
}

func (o options) get(ctx context.Context, pattern string) error {
	if o.transport == nil {
		return remote.ErrNoTransport
	}
	return o.transport.Get(ctx, pattern)
}
