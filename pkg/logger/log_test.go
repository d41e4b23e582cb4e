package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	defer LogLevel.Set(slog.LevelError)

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		SetLogLevel(tt.in)
		if got := LogLevel.Level(); got != tt.want {
			t.Errorf("SetLogLevel(%q) level = %v, want %v", tt.in, got, tt.want)
		}
	}

	SetLogLevel("bogus")
	if got := LogLevel.Level(); got != slog.LevelError {
		t.Errorf("unknown level changed level to %v", got)
	}
}

func TestNewRenamesTime(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo)
	l.Info("hello", "k", "v")

	out := buf.String()
	if !strings.Contains(out, "timestamp=") {
		t.Errorf("output %q missing timestamp key", out)
	}
	if strings.Contains(out, " time=") || strings.HasPrefix(out, "time=") {
		t.Errorf("output %q still has time key", out)
	}
	if !strings.Contains(out, "k=v") {
		t.Errorf("output %q missing attribute", out)
	}
}
