package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shotpath/internal/config"
	"shotpath/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message", slog.String(logging.FieldPath, "/shows/a.exr"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "shotpath.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "debug message") {
		t.Fatalf("expected debug line in log file, got %q", content)
	}
}

func TestNewFromConfigFileLevelOverridesLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		fileLevel string
		wantDebug bool
		wantInfo  bool
	}{
		{"follows level", "info", "", false, true},
		{"more verbose file", "warn", "debug", true, true},
		{"quieter file", "info", "error", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.LogDir = t.TempDir()
			cfg.Logging.Level = tt.level
			cfg.Logging.FileLevel = tt.fileLevel

			logger, err := logging.NewFromConfig(&cfg)
			if err != nil {
				t.Fatalf("NewFromConfig returned error: %v", err)
			}
			logger.Debug("debug detail")
			logger.Info("info detail")

			content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "shotpath.log"))
			if err != nil && !os.IsNotExist(err) {
				t.Fatalf("read log file: %v", err)
			}
			if got := strings.Contains(string(content), "debug detail"); got != tt.wantDebug {
				t.Fatalf("debug in file = %v, want %v (%q)", got, tt.wantDebug, content)
			}
			if got := strings.Contains(string(content), "info detail"); got != tt.wantInfo {
				t.Fatalf("info in file = %v, want %v (%q)", got, tt.wantInfo, content)
			}
		})
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "entity")
	logger.Info("scanned sequence", slog.Int("frames", 10), slog.String("label", "a b"), logging.Error(errors.New("boom")))
	logger.Debug("hidden")

	line := buf.String()
	if !strings.Contains(line, "INFO entity: scanned sequence") {
		t.Fatalf("expected level, component and message, got %q", line)
	}
	if !strings.Contains(line, "frames=10") || !strings.Contains(line, `label="a b"`) || !strings.Contains(line, "error=boom") {
		t.Fatalf("expected formatted fields, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix only, got %q", line)
	}
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug line should be filtered at info level, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no source information at info level, got %q", line)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("multiple paddings", slog.String(logging.FieldReferencePath, "/a/b.#.exr"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected lower-case level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload[logging.FieldReferencePath] != "/a/b.#.exr" {
		t.Fatalf("expected reference path attribute, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.OrNop(nil)
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("expected no-op logger to be disabled")
	}
}
