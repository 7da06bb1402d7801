package cuesheet_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"cuekit/internal/cuesheet"
)

const sampleCue = `REM GENRE "Rock"
REM DATE 1994
REM DISCID 8A0B2C0D
REM COMMENT "ExactAudioCopy v1.0"
PERFORMER "The Band"
TITLE "Live Album"
FILE "Live Album.flac" WAVE
  TRACK 01 AUDIO
    TITLE "Opening"
    INDEX 01 00:00:00
  TRACK 02 AUDIO
    TITLE "Second Song"
    INDEX 00 04:10:20
    INDEX 01 04:12:00
  TRACK 03 AUDIO
    TITLE "Closer"
    INDEX 01 08:30:74
`

func lines(text string) []string {
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func TestExtractMetadata(t *testing.T) {
	meta, err := cuesheet.ExtractMetadata(lines(sampleCue))
	if err != nil {
		t.Fatalf("ExtractMetadata returned error: %v", err)
	}
	if meta.Performer != "The Band" || meta.Title != "Live Album" {
		t.Fatalf("unexpected album fields: %+v", meta)
	}
	if meta.Genre != "Rock" || meta.Date != "1994" || meta.DiscID != "8A0B2C0D" {
		t.Fatalf("unexpected REM fields: %+v", meta)
	}
	if meta.DisplayComment != "ExactAudioCopy v1.0/8A0B2C0D" {
		t.Fatalf("unexpected display comment %q", meta.DisplayComment)
	}
	if got := strings.Join(meta.TrackNumbers, ","); got != "01,02,03" {
		t.Fatalf("unexpected track numbers %q", got)
	}
	if got := strings.Join(meta.TrackTitles, "|"); got != "Opening|Second Song|Closer" {
		t.Fatalf("unexpected track titles %q", got)
	}
	for i, performer := range meta.TrackPerformers {
		if performer != "The Band" {
			t.Fatalf("track %d performer = %q, want album performer", i, performer)
		}
	}
	if meta.TrackGenres != nil || meta.TrackDates != nil {
		t.Fatalf("expected nil per-track genre/date, got %v %v", meta.TrackGenres, meta.TrackDates)
	}
	track := meta.Track(1)
	if track.Genre != "Rock" || track.Date != "1994" || track.Number != "02" {
		t.Fatalf("unexpected resolved track: %+v", track)
	}
	if meta.LastTrackNumber() != "03" {
		t.Fatalf("unexpected last track number %q", meta.LastTrackNumber())
	}
}

func TestExtractMetadataFirstMatchWins(t *testing.T) {
	text := "PERFORMER \"First\"\nPERFORMER \"Second\"\nTITLE \"Album\"\nTITLE \"Other\"\n  TRACK 01 AUDIO\n    TITLE \"One\"\n"
	meta, err := cuesheet.ExtractMetadata(lines(text))
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	if meta.Performer != "First" || meta.Title != "Album" {
		t.Fatalf("expected first matches, got performer=%q title=%q", meta.Performer, meta.Title)
	}
}

func TestExtractMetadataGeneratedComment(t *testing.T) {
	text := "PERFORMER A\nTITLE B\n  TRACK 01 AUDIO\n    TITLE C\n"
	meta, err := cuesheet.ExtractMetadata(lines(text))
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	want := cuesheet.Generator() + "/unknown disc"
	if meta.DisplayComment != want {
		t.Fatalf("DisplayComment = %q, want %q", meta.DisplayComment, want)
	}
	if !strings.HasPrefix(meta.DisplayComment, "generated-by-cuekit-") {
		t.Fatalf("unexpected generator prefix %q", meta.DisplayComment)
	}
}

func TestExtractMetadataPerTrackFields(t *testing.T) {
	text := `PERFORMER "Various Artists"
TITLE "Collection"
  TRACK 01 AUDIO
    TITLE "One"
    PERFORMER "Artist A"
    TGENRE "Jazz"
    TDATE 1961
  TRACK 02 AUDIO
    TITLE "Two"
    PERFORMER "Artist B"
    TGENRE "Blues"
    TDATE 1972
`
	meta, err := cuesheet.ExtractMetadata(lines(text))
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	second := meta.Track(1)
	if second.Performer != "Artist B" || second.Genre != "Blues" || second.Date != "1972" {
		t.Fatalf("unexpected second track: %+v", second)
	}
}

func TestExtractMetadataRejectsInvalidSheets(t *testing.T) {
	var tenTitles strings.Builder
	tenTitles.WriteString("PERFORMER A\nTITLE B\n")
	for i := 1; i <= 10; i++ {
		if i <= 9 {
			fmt.Fprintf(&tenTitles, "  TRACK %02d AUDIO\n", i)
		}
		fmt.Fprintf(&tenTitles, "    TITLE \"Song %d\"\n", i)
	}

	cases := map[string]string{
		"ten titles nine tracks": tenTitles.String(),
		"missing album title":    "PERFORMER A\n  TRACK 01 AUDIO\n    TITLE C\n",
		"missing performer":      "TITLE B\n  TRACK 01 AUDIO\n    TITLE C\n",
		"no tracks":              "PERFORMER A\nTITLE B\n",
		"partial performers":     "PERFORMER A\nTITLE B\n  TRACK 01 AUDIO\n    TITLE C\n    PERFORMER X\n  TRACK 02 AUDIO\n    TITLE D\n",
	}
	for name, text := range cases {
		_, err := cuesheet.ExtractMetadata(lines(text))
		if !errors.Is(err, cuesheet.ErrInvalidCue) {
			t.Fatalf("%s: expected ErrInvalidCue, got %v", name, err)
		}
	}
}
