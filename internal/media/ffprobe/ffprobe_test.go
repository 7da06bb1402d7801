package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const samplePayload = `{
  "streams": [
    {"index": 0, "codec_name": "vorbis", "codec_type": "audio", "sample_rate": "44100", "channels": 2,
     "tags": {"ARTIST": "Stream Artist", "TITLE": "Intro", "TRACKNUMBER": "1"}}
  ],
  "format": {"filename": "a.ogg", "nb_streams": 1, "duration": "123.45", "size": "1000", "bit_rate": "32000",
             "format_name": "ogg", "tags": {"Artist": "Container Artist", "ALBUM": "Record"}}
}`

func TestResultHelpers(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 || result.BitRate() != 32000 {
		t.Fatalf("unexpected size/bitrate: %d %d", result.SizeBytes(), result.BitRate())
	}
	if got := result.AudioLayout(); got != "44100 Hz, 2 ch" {
		t.Fatalf("unexpected layout %q", got)
	}
	if string(result.RawJSON()) != samplePayload {
		t.Fatal("expected raw payload to be retained")
	}
}

func TestTagsMergeStreamAndContainer(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tags := result.Tags()
	if tags["artist"] != "Container Artist" {
		t.Fatalf("expected container tag to win, got %q", tags["artist"])
	}
	if tags["title"] != "Intro" || tags["album"] != "Record" {
		t.Fatalf("unexpected merged tags %+v", tags)
	}
	if got := result.Tag("TRACK", "tracknumber"); got != "1" {
		t.Fatalf("expected fallback key lookup, got %q", got)
	}
	if got := result.Tag("missing"); got != "" {
		t.Fatalf("expected empty tag, got %q", got)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestInspectRunsBinary(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(payload, []byte(samplePayload), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat " + payload + "\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "a.ogg")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.Tag("album") != "Record" {
		t.Fatalf("unexpected tags %+v", result.Tags())
	}
}

func TestInspectReportsFailure(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\necho 'Invalid data' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if _, err := Inspect(context.Background(), stub, "broken.flac"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
	if _, err := Inspect(context.Background(), stub, " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
