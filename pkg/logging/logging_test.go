package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewWritesJSONAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info().Msg("hidden")
	logger.Warn().Str("component", "test").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["message"] != "shown" || entry["component"] != "test" || entry["service"] != "signal-analyzer" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := OpenFile(path, "info")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info().Msg("first")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "first") {
		t.Fatalf("expected log line in file, got %q", data)
	}
}

func TestOpenFileBadPath(t *testing.T) {
	if _, _, err := OpenFile(filepath.Join(t.TempDir(), "missing", "app.log"), "info"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
