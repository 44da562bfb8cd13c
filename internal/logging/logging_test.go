package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"off", zerolog.Disabled, false},
		{"loud", zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: FormatJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info().Msg("hidden")
	logger.Warn().Str("entry", "main").Msg("slow build")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid JSON log line: %v", err)
	}
	if rec["message"] != "slow build" || rec["entry"] != "main" || rec["level"] != "warn" {
		t.Errorf("record = %v", rec)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Output: &buf, NoColor: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info().Msg("bundled")
	if !strings.Contains(buf.String(), "bundled") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New() expected error for unknown format")
	}
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("New() expected error for unknown level")
	}
}
