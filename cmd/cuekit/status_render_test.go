package main

import (
	"fmt"
	"strings"
	"testing"

	"cuekit/internal/deps"
	"cuekit/internal/history"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("shntool", statusError, "binary not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "shntool:", "[ERROR] binary not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("shntool", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "shntool", Command: "shnsplit", Available: false},
		{Name: "FFmpeg", Command: "ffmpeg", Available: true},
		{Name: "shnhash", Command: "shnhash", Optional: true, Detail: `binary "shnhash" not found`},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[ERROR]") || !strings.Contains(lines[0], "Summary") {
		t.Fatalf("expected summary line first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] not available") {
		t.Fatalf("expected error detail in second line, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[OK] Ready (command: ffmpeg)") {
		t.Fatalf("expected ready detail in third line, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "[WARN]") {
		t.Fatalf("expected optional tool as warning, got %q", lines[3])
	}
	if !strings.Contains(lines[4], "shnsplit") {
		t.Fatalf("expected missing list last, got %q", lines[4])
	}
}

func TestFormatStatusLabel(t *testing.T) {
	if got := formatStatusLabel(history.StatusRejected, false); got != "Rejected" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := formatStatusLabel(history.StatusFailed, true); !strings.HasPrefix(got, ansiRed) {
		t.Fatalf("expected red failed label, got %q", got)
	}
}
