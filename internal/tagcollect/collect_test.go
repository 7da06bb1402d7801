package tagcollect_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"cuekit/internal/cuesheet"
	"cuekit/internal/tagcollect"
)

type fakeReader map[string]map[string]string

func (f fakeReader) ReadTags(_ context.Context, path string) (map[string]string, error) {
	tags, ok := f[path]
	if !ok {
		return nil, errors.New("unreadable")
	}
	return tags, nil
}

func TestCollectSingleAlbum(t *testing.T) {
	reader := fakeReader{
		"/m/01.flac": {"artist": "Kino", "title": "Gruppa krovi", "album": "Gruppa krovi", "genre": "Rock", "date": "1988"},
		"/m/02.flac": {"artist": "Kino", "title": "Zakrytaya dver"},
	}
	collector := tagcollect.Collector{Reader: reader, Mode: tagcollect.ModeSingle}
	result, err := collector.Collect(context.Background(), []string{"/m/01.flac", "/m/02.flac"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{
		`REM GENRE "Rock"`,
		`REM DATE "1988"`,
		`REM COMMENT "` + cuesheet.Generator() + `"`,
		`PERFORMER "Kino"`,
		`TITLE "Gruppa krovi"`,
		`  TRACK 01 AUDIO`,
		`    FILE "01.flac"`,
		`    TITLE "Gruppa krovi"`,
		`    PERFORMER "Kino"`,
		`  TRACK 02 AUDIO`,
		`    FILE "02.flac"`,
		`    TITLE "Zakrytaya dver"`,
		`    PERFORMER "Kino"`,
	}
	if !reflect.DeepEqual(result.Lines, want) {
		t.Fatalf("unexpected cuesheet\n got %q\nwant %q", result.Lines, want)
	}

	meta, err := cuesheet.ExtractMetadata(result.Lines)
	if err != nil {
		t.Fatalf("generated sheet does not parse: %v", err)
	}
	if meta.Title != "Gruppa krovi" || meta.TrackCount() != 2 {
		t.Fatalf("unexpected parsed metadata %+v", meta)
	}
}

func TestCollectVariousAlbum(t *testing.T) {
	reader := fakeReader{
		"a.mp3": {"artist": "A", "title": "One", "genre": "Pop", "date": "2001"},
		"b.mp3": {"artist": "B", "title": "Two", "genre": "Jazz", "date": "1965"},
	}
	collector := tagcollect.Collector{Reader: reader, Mode: tagcollect.ModeVarious}
	result, err := collector.Collect(context.Background(), []string{"a.mp3", "b.mp3"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	text := strings.Join(result.Lines, "\n")
	for _, fragment := range []string{`REM GENRE ""`, `PERFORMER "Various Artists"`, `TITLE "Collection"`, `    TGENRE "Jazz"`, `    TDATE 1965`} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in\n%s", fragment, text)
		}
	}
	meta, err := cuesheet.ExtractMetadata(result.Lines)
	if err != nil {
		t.Fatalf("generated sheet does not parse: %v", err)
	}
	if !reflect.DeepEqual(meta.TrackGenres, []string{"Pop", "Jazz"}) {
		t.Fatalf("unexpected track genres %q", meta.TrackGenres)
	}
}

func TestCollectRefusesMissingValues(t *testing.T) {
	reader := fakeReader{
		"1.ogg": {"artist": "X"},
	}
	collector := tagcollect.Collector{Reader: reader}
	result, err := collector.Collect(context.Background(), []string{"1.ogg", "2.ogg"})
	if !errors.Is(err, tagcollect.ErrEmptyFields) {
		t.Fatalf("expected ErrEmptyFields, got %v", err)
	}
	got := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		got = append(got, w.String())
	}
	want := []string{
		"genre is unknown",
		"album is unknown",
		"date is unknown",
		`"1.ogg": title is empty`,
		`"2.ogg": artist is empty`,
		`"2.ogg": title is empty`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected warnings\n got %q\nwant %q", got, want)
	}
	if result.Lines != nil {
		t.Fatal("expected no cuesheet without placeholders")
	}
}

func TestCollectWithPlaceholders(t *testing.T) {
	collector := tagcollect.Collector{Reader: fakeReader{"1.ogg": {}}, AllowEmpty: true}
	result, err := collector.Collect(context.Background(), []string{"1.ogg"})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if result.Lines[3] != `PERFORMER "empty"` || result.Lines[7] != `    TITLE "empty"` {
		t.Fatalf("expected placeholders, got %q", result.Lines)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected warnings to be reported alongside the sheet")
	}
}

func TestTrackNumbersWidth(t *testing.T) {
	if got := tagcollect.TrackNumbers(3); !reflect.DeepEqual(got, []string{"01", "02", "03"}) {
		t.Fatalf("unexpected numbers %q", got)
	}
	got := tagcollect.TrackNumbers(120)
	if got[0] != "001" || got[119] != "120" {
		t.Fatalf("unexpected wide numbers %q %q", got[0], got[119])
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := tagcollect.ParseMode("Various"); err != nil || mode != tagcollect.ModeVarious {
		t.Fatalf("unexpected mode %q (%v)", mode, err)
	}
	if _, err := tagcollect.ParseMode("split"); !errors.Is(err, cuesheet.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
