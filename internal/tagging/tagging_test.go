package tagging_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"cuekit/internal/cuesheet"
	"cuekit/internal/deps"
	"cuekit/internal/tagging"
	"cuekit/internal/testsupport"
)

func sampleMetadata(t *testing.T) *cuesheet.Metadata {
	t.Helper()
	text := testsupport.CueSheet("AC/DC", "Live", "image.flac", []testsupport.Track{
		{Title: "Intro", Performer: "AC/DC", Start: "00:00:00"},
		{Title: "Back: In Black", Performer: "AC/DC", Start: "02:00:00"},
		{Title: "Thunder", Performer: "Guest", Start: "06:00:00"},
	})
	meta, err := cuesheet.ExtractMetadata(strings.Split(text, "\n"))
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	return meta
}

func TestBuildTagsVorbis(t *testing.T) {
	meta := sampleMetadata(t)
	got := tagging.BuildTags("flac", meta, 1)
	want := []tagging.Tag{
		{Key: "artist", Value: "AC/DC"},
		{Key: "album", Value: "Live"},
		{Key: "genre", Value: "Rock"},
		{Key: "title", Value: "Back: In Black"},
		{Key: "tracknumber", Value: "2"},
		{Key: "tracktotal", Value: "3"},
		{Key: "date", Value: "1999"},
		{Key: "comment", Value: meta.DisplayComment},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tags\n got %+v\nwant %+v", got, want)
	}
}

func TestBuildTagsMP3UsesTrackFraction(t *testing.T) {
	meta := sampleMetadata(t)
	tags := tagging.BuildTags("mp3", meta, 2)
	found := false
	for _, tag := range tags {
		if tag.Key == "tracknumber" || tag.Key == "tracktotal" {
			t.Fatalf("unexpected vorbis field %q for mp3", tag.Key)
		}
		if tag.Key == "track" {
			found = true
			if tag.Value != "3/3" {
				t.Fatalf("unexpected track value %q", tag.Value)
			}
		}
		if tag.Key == "artist" && tag.Value != "Guest" {
			t.Fatalf("expected track performer, got %q", tag.Value)
		}
	}
	if !found {
		t.Fatal("expected track tag")
	}
}

func TestTrackFileName(t *testing.T) {
	meta := sampleMetadata(t)
	if got := tagging.TrackFileName(meta, 1, ".FLAC"); got != "02 - AC~DC - Back~ In Black.flac" {
		t.Fatalf("unexpected name %q", got)
	}
}

func installFFmpeg(t *testing.T, dir string) string {
	t.Helper()
	record := filepath.Join(dir, "ffmpeg.args")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" >> " + record + "\nout=\"\"\nfor a in \"$@\"; do out=\"$a\"; done\ncp \"$5\" \"$out\"\n"
	if err := os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return record
}

func TestWriteReplacesFile(t *testing.T) {
	bin := t.TempDir()
	record := installFFmpeg(t, bin)
	dir := t.TempDir()
	track := filepath.Join(dir, "track01.flac")
	testsupport.WriteFile(t, track, 64)

	writer := tagging.NewWriter("ffmpeg", deps.DirLocator{Dir: bin}, nil)
	tags := []tagging.Tag{{Key: "title", Value: "Intro"}, {Key: "genre", Value: ""}}
	if err := writer.Write(context.Background(), track, tags); err != nil {
		t.Fatalf("Write: %v", err)
	}

	args, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	text := string(args)
	for _, fragment := range []string{"-map_metadata\n-1\n", "-metadata\ntitle=Intro\n", "-c\ncopy\n"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in args %q", fragment, text)
		}
	}
	if strings.Contains(text, "genre=") {
		t.Fatalf("expected empty tag to be skipped, got %q", text)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "track01.flac" {
		t.Fatalf("expected only the track to remain, got %v", entries)
	}
}

func TestTagTracksRenamesAndSkipsImage(t *testing.T) {
	bin := t.TempDir()
	installFFmpeg(t, bin)
	dir := t.TempDir()
	for _, name := range []string{"image.flac", "track01.flac", "track02.flac", "track03.flac", "notes.txt"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), 16)
	}

	writer := tagging.NewWriter("ffmpeg", deps.DirLocator{Dir: bin}, nil)
	results, err := writer.TagTracks(context.Background(), dir, sampleMetadata(t), tagging.Options{
		Format:  "flac",
		Exclude: filepath.Join(dir, "image.flac"),
		Rename:  true,
	})
	if err != nil {
		t.Fatalf("TagTracks: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if filepath.Base(results[2].Final) != "03 - Guest - Thunder.flac" {
		t.Fatalf("unexpected final name %q", results[2].Final)
	}
	if _, err := os.Stat(filepath.Join(dir, "image.flac")); err != nil {
		t.Fatalf("image must be untouched: %v", err)
	}
}

func TestTagTracksCountMismatch(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "track01.flac"), 16)
	writer := tagging.NewWriter("ffmpeg", deps.DirLocator{Dir: t.TempDir()}, nil)
	_, err := writer.TagTracks(context.Background(), dir, sampleMetadata(t), tagging.Options{Format: "flac"})
	if !errors.Is(err, tagging.ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}
}

func TestWriteMissingFFmpeg(t *testing.T) {
	writer := tagging.NewWriter("ffmpeg", deps.LocatorFunc(func(string) (string, error) {
		return "", errors.New("absent")
	}), nil)
	err := writer.Write(context.Background(), "x.flac", nil)
	if !errors.Is(err, deps.ErrMissingTool) {
		t.Fatalf("expected ErrMissingTool, got %v", err)
	}
}
