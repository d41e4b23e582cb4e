package progress

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	report := LineReporter(&buf)("a.txt", 2048)
	report(Snapshot{Percent: 50, Written: 1024, Total: 2048})

	out := buf.String()
	if !strings.HasPrefix(out, "Progress: 50%  1.00KB / 2.00KB") {
		t.Errorf("unexpected line %q", out)
	}
	if !strings.HasSuffix(out, "\r") || strings.Contains(out, "\n") {
		t.Errorf("line %q should end with \\r and contain no newline", out)
	}
}

func TestLogReporterThrottles(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	report := LogReporter(l, 25)("big.iso", 100)
	for p := 1; p <= 100; p++ {
		report(Snapshot{Percent: p, Written: int64(p), Total: 100})
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 1, 26, 51, 76, 100
	if len(lines) != 5 {
		t.Fatalf("got %d log lines, want 5:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[len(lines)-1], "percent=100") {
		t.Errorf("last line %q should report 100%%", lines[len(lines)-1])
	}
}

func TestBarReporterZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	report := BarReporter(&buf)("empty.txt", 0)
	report(Snapshot{Percent: 100})
	if buf.Len() != 0 {
		t.Errorf("zero-size bar wrote %q", buf.String())
	}
}

func TestBarReporterWrites(t *testing.T) {
	var buf bytes.Buffer
	report := BarReporter(&buf)("a.bin", 100)
	report(Snapshot{Percent: 100, Written: 100, Total: 100})
	if !strings.Contains(buf.String(), "a.bin") {
		t.Errorf("bar output %q missing description", buf.String())
	}
}
