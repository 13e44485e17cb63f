package main

import (
	"strings"
	"testing"
)

func TestSanitiseCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"sanitise", "lighting (test)"}, "")
	if err != nil {
		t.Fatalf("sanitise: %v", err)
	}
	if strings.TrimSpace(out) != "lighting_test" {
		t.Fatalf("unexpected output %q", out)
	}

	out, _, err = runCLI(t, []string{"sanitize", "--extra", "-#", "my-text#1"}, "")
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if strings.TrimSpace(out) != "my-text#1" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestUIDCommand(t *testing.T) {
	first, _, err := runCLI(t, []string{"uid"}, "")
	if err != nil {
		t.Fatalf("uid: %v", err)
	}
	second, _, err := runCLI(t, []string{"uid"}, "")
	if err != nil {
		t.Fatalf("uid: %v", err)
	}
	if strings.TrimSpace(first) == "" || first == second {
		t.Fatalf("expected two distinct ids, got %q and %q", first, second)
	}
}
