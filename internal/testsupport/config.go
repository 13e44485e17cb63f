package testsupport

import (
	"path/filepath"
	"testing"

	"shotpath/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The site defaults to syd syncing with bne over the mirror backend.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Catalog.Path = filepath.Join(base, "data", "catalog.db")
	cfgVal.Site.Location = "syd"
	cfgVal.Remote.Backend = config.BackendMirror

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLocation overrides the current site on the test config.
func WithLocation(location string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Site.Location = location
	}
}

// WithBackend overrides the remote backend on the test config.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Remote.Backend = backend
	}
}

// WithCatalogDisabled turns the catalog off.
func WithCatalogDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
