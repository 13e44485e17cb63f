package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestNewTeeHandlerCollapses(t *testing.T) {
	if _, ok := newTeeHandler([]Output{{Name: "console"}}).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when no output has a handler")
	}

	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newTeeHandler([]Output{{Name: "console"}, {Name: "file", Handler: inner}}); h != inner {
		t.Fatal("expected a single output to be returned unwrapped")
	}
}

func TestTeeRespectsEachOutputLevel(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer
	logger := NewTee(
		Output{Name: "console", Handler: slog.NewJSONHandler(&consoleBuf, &slog.HandlerOptions{Level: slog.LevelInfo})},
		Output{Name: "file", Handler: slog.NewJSONHandler(&fileBuf, &slog.HandlerOptions{Level: slog.LevelDebug})},
	)
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected tee enabled when any output accepts the level")
	}

	logger.Debug("scan detail")
	if consoleBuf.Len() != 0 {
		t.Fatalf("console received debug record: %q", consoleBuf.String())
	}
	if fileBuf.Len() == 0 {
		t.Fatal("file did not receive debug record")
	}
}

func TestTeeCarriesAttrsToAllOutputs(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer
	logger := NewTee(
		Output{Name: "console", Handler: slog.NewJSONHandler(&consoleBuf, nil)},
		Output{Name: "file", Handler: slog.NewJSONHandler(&fileBuf, nil)},
	).With(slog.String("site", "syd")).WithGroup("sync")

	logger.Info("synced", slog.Int("files", 3))

	for name, buf := range map[string]*bytes.Buffer{"console": &consoleBuf, "file": &fileBuf} {
		if !bytes.Contains(buf.Bytes(), []byte(`"site":"syd"`)) || !bytes.Contains(buf.Bytes(), []byte(`"sync":{"files":3}`)) {
			t.Fatalf("%s: expected site attribute and sync group, got %q", name, buf.String())
		}
	}
}

func TestTeeKeepsWritingAfterFailedOutput(t *testing.T) {
	var fileBuf bytes.Buffer
	h := newTeeHandler([]Output{
		{Name: "console", Handler: slog.NewTextHandler(failingWriter{}, nil)},
		{Name: "file", Handler: slog.NewJSONHandler(&fileBuf, nil)},
	})

	record := slog.NewRecord(time.Now(), slog.LevelWarn, "catalog busy", 0)
	err := h.Handle(context.Background(), record)
	if err == nil || !strings.Contains(err.Error(), "console log: disk full") {
		t.Fatalf("expected named console error, got %v", err)
	}
	if !strings.Contains(fileBuf.String(), "catalog busy") {
		t.Fatalf("file output skipped after console failure: %q", fileBuf.String())
	}
}
