package testsupport

import (
	"testing"

	"shotpath/internal/catalog"
	"shotpath/internal/config"
)

// MustOpenCatalog opens the catalog configured in cfg and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.OpenFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("catalog.OpenFromConfig: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
