package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shotpath/internal/config"
	"shotpath/internal/testsupport"
)

func TestSyncPushAndPullThroughMirror(t *testing.T) {
	env := setupCLITestEnv(t)
	mnt := env.cfg.Remote.MirrorRoot
	local := filepath.Join(mnt, "prod", "shots", "sh010", "plate.####.exr")
	frames := testsupport.WriteSequence(t, local, 1, 2)

	out, _, err := env.run(t, "sync", "push", frames[0])
	if err != nil {
		t.Fatalf("sync push: %v", err)
	}
	requireContains(t, out, "Synced plate.#.exr (push)")
	remoteFrame := filepath.Join(mnt, "bne_prod", "shots", "sh010", "plate.0002.exr")
	if _, err := os.Stat(remoteFrame); err != nil {
		t.Fatalf("expected pushed frame at %s: %v", remoteFrame, err)
	}

	for _, f := range frames {
		if err := os.Remove(f); err != nil {
			t.Fatalf("remove %s: %v", f, err)
		}
	}
	if _, _, err := env.run(t, "sync", "pull", local); err != nil {
		t.Fatalf("sync pull: %v", err)
	}
	for _, f := range frames {
		if _, err := os.Stat(f); err != nil {
			t.Fatalf("expected pulled frame %s: %v", f, err)
		}
	}
}

func TestSyncDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithBackend(config.BackendNone))
	_, _, err := env.run(t, "sync", "push", filepath.Join(env.workDir, "a.exr"))
	if err == nil || !strings.Contains(err.Error(), "syncing is disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}
