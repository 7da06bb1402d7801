package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0x42
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteText writes text content, creating parent directories.
func WriteText(t testing.TB, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Track describes one entry of a generated cuesheet.
type Track struct {
	Title     string
	Performer string
	PreGap    string
	Start     string
}

// CueSheet renders a minimal album cuesheet for the given tracks.
func CueSheet(performer, title, mediaName string, tracks []Track) string {
	var b strings.Builder
	fmt.Fprintf(&b, "REM GENRE Rock\nREM DATE 1999\n")
	fmt.Fprintf(&b, "PERFORMER %q\nTITLE %q\n", performer, title)
	fmt.Fprintf(&b, "FILE %q WAVE\n", mediaName)
	for i, track := range tracks {
		fmt.Fprintf(&b, "  TRACK %02d AUDIO\n", i+1)
		fmt.Fprintf(&b, "    TITLE %q\n", track.Title)
		if track.Performer != "" {
			fmt.Fprintf(&b, "    PERFORMER %q\n", track.Performer)
		}
		if track.PreGap != "" {
			fmt.Fprintf(&b, "    INDEX 00 %s\n", track.PreGap)
		}
		fmt.Fprintf(&b, "    INDEX 01 %s\n", track.Start)
	}
	return b.String()
}

// WriteAlbum writes <stem>.cue and a placeholder <stem>.flac into dir and
// returns both paths.
func WriteAlbum(t testing.TB, dir, stem string, tracks []Track) (string, string) {
	t.Helper()
	media := filepath.Join(dir, stem+".flac")
	WriteFile(t, media, 1024)
	cue := WriteText(t, filepath.Join(dir, stem+".cue"), CueSheet("Artist", "Album", stem+".flac", tracks))
	return cue, media
}

// ThreeTracks is a small album with one pre-gap.
var ThreeTracks = []Track{
	{Title: "One", Start: "00:00:00"},
	{Title: "Two", PreGap: "03:58:50", Start: "04:00:00"},
	{Title: "Three", Start: "07:30:37"},
}
