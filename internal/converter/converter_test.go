package converter_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cuekit/internal/config"
	"cuekit/internal/converter"
	"cuekit/internal/cuesheet"
	"cuekit/internal/deps"
	"cuekit/internal/history"
	"cuekit/internal/logging"
	"cuekit/internal/services"
	"cuekit/internal/shntool"
	"cuekit/internal/testsupport"
)

// fakeSplitter writes one empty segment per split point plus one.
type fakeSplitter struct {
	length   shntool.Length
	splitErr error
	cmd      shntool.SplitCommand
	points   []string
	calls    int
}

func (f *fakeSplitter) Length(context.Context, string) (shntool.Length, error) {
	return f.length, nil
}

func (f *fakeSplitter) Split(_ context.Context, cmd shntool.SplitCommand, points []string) error {
	f.calls++
	f.cmd = cmd
	f.points = append([]string(nil), points...)
	if f.splitErr != nil {
		return f.splitErr
	}
	for n := 1; n <= len(points)+1; n++ {
		path := filepath.Join(cmd.OutputDir, shntool.TrackName(cmd.Prefix, n, cmd.Format))
		if err := os.WriteFile(path, []byte("segment"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

type taggedFile struct {
	name string
	step int
}

type fakeTagger struct {
	tagged []taggedFile
}

func (f *fakeTagger) TagFile(_ context.Context, file, _ string, _ *cuesheet.Metadata, step int, _ bool) (string, error) {
	f.tagged = append(f.tagged, taggedFile{name: filepath.Base(file), step: step})
	return file, nil
}

type fixture struct {
	cfg      *config.Config
	cue      string
	media    string
	splitter *fakeSplitter
	tagger   *fakeTagger
	store    *history.Store
	conv     *converter.Converter
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedBinaries()}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cue, media := testsupport.WriteAlbum(t, t.TempDir(), "album", testsupport.ThreeTracks)
	f := &fixture{
		cfg:      cfg,
		cue:      cue,
		media:    media,
		splitter: &fakeSplitter{length: shntool.Length{Seconds: 600, CDDA: true}},
		tagger:   &fakeTagger{},
		store:    testsupport.MustOpenHistory(t, cfg),
	}
	f.conv = converter.NewWithDependencies(cfg, deps.NewLocator(cfg.Tools.Dir), f.splitter, f.tagger, f.store, logging.NewNop())
	return f
}

func (f *fixture) latestRun(t *testing.T) *history.Run {
	t.Helper()
	run, err := f.store.LatestForCue(context.Background(), f.cue)
	if err != nil {
		t.Fatalf("LatestForCue: %v", err)
	}
	return run
}

func TestConvertAppendPolicy(t *testing.T) {
	f := newFixture(t)
	req := f.conv.DefaultRequest(f.media)

	result, err := f.conv.Convert(context.Background(), req)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if result.Cue != f.cue || result.Media != f.media {
		t.Fatalf("unexpected pair %q / %q", result.Cue, result.Media)
	}
	if want := []string{"04:00.00", "07:30.37"}; strings.Join(f.splitter.points, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected split points %v", f.splitter.points)
	}
	if f.splitter.cmd.OutputDir != f.cfg.Paths.OutputDir || f.splitter.cmd.Options != "" {
		t.Fatalf("unexpected command %+v", f.splitter.cmd)
	}
	if len(f.tagger.tagged) != 3 {
		t.Fatalf("expected 3 tagged tracks, got %+v", f.tagger.tagged)
	}
	for i, tagged := range f.tagger.tagged {
		if tagged.step != i || tagged.name != shntool.TrackName("track", i+1, "flac") {
			t.Fatalf("unexpected tagging order: %+v", f.tagger.tagged)
		}
	}

	run := f.latestRun(t)
	if run.ID != result.RunID || run.Status != history.StatusCompleted || run.Tracks != 3 {
		t.Fatalf("unexpected history run %+v", run)
	}
}

func TestConvertSplitPolicyRemovesGapSegments(t *testing.T) {
	f := newFixture(t, testsupport.WithPolicy("split"), testsupport.WithFormat("ogg"))
	req := f.conv.DefaultRequest(f.cue)

	result, err := f.conv.Convert(context.Background(), req)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(f.splitter.points) != 3 {
		t.Fatalf("expected pre-gap and start points, got %v", f.splitter.points)
	}
	if f.splitter.cmd.Options != "-q 4" {
		t.Fatalf("expected default ogg options, got %q", f.splitter.cmd.Options)
	}
	if len(result.Removed) != 1 || filepath.Base(result.Removed[0]) != "track02.ogg" {
		t.Fatalf("expected the pre-gap segment to be removed, got %v", result.Removed)
	}
	names := make([]string, 0, len(f.tagger.tagged))
	for _, tagged := range f.tagger.tagged {
		names = append(names, tagged.name)
	}
	if got := strings.Join(names, ","); got != "track01.ogg,track03.ogg,track04.ogg" {
		t.Fatalf("unexpected tagged files %s", got)
	}
}

func TestConvertRemovesStaleTracks(t *testing.T) {
	f := newFixture(t)
	stale := filepath.Join(f.cfg.Paths.OutputDir, "track09.flac")
	testsupport.WriteFile(t, stale, 8)

	if _, err := f.conv.Convert(context.Background(), f.conv.DefaultRequest(f.cue)); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if _, err := os.Stat(stale); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected stale track to be removed, stat err=%v", err)
	}
}

func TestConvertRejectsShortImage(t *testing.T) {
	f := newFixture(t)
	f.splitter.length = shntool.Length{Seconds: 451, CDDA: true}

	_, err := f.conv.Convert(context.Background(), f.conv.DefaultRequest(f.cue))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.splitter.calls != 0 {
		t.Fatal("split should not run for a short image")
	}
	run := f.latestRun(t)
	if run.Status != history.StatusRejected || !strings.Contains(run.ErrorMessage, "too short") {
		t.Fatalf("unexpected history run %+v", run)
	}
}

func TestConvertChecksImageQuality(t *testing.T) {
	tests := []struct {
		name    string
		cdda    bool
		notCDDA bool
		want    string
	}{
		{name: "cdda required", cdda: false, notCDDA: false, want: "only CDDA images"},
		{name: "not cdda required", cdda: true, notCDDA: true, want: "may not be split"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.splitter.length = shntool.Length{Seconds: 600, CDDA: tt.cdda}
			req := f.conv.DefaultRequest(f.cue)
			req.NotCDDA = tt.notCDDA

			_, err := f.conv.Convert(context.Background(), req)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q error, got %v", tt.want, err)
			}
		})
	}
}

func TestConvertNotCDDAUsesMilliseconds(t *testing.T) {
	f := newFixture(t)
	f.splitter.length = shntool.Length{Seconds: 600, CDDA: false}
	req := f.conv.DefaultRequest(f.cue)
	req.NotCDDA = true

	if _, err := f.conv.Convert(context.Background(), req); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if f.splitter.points[1] != "07:30.493" {
		t.Fatalf("expected millisecond points, got %v", f.splitter.points)
	}
}

func TestConvertMissingEncoder(t *testing.T) {
	f := newFixture(t, testsupport.WithFormat("mp3"))
	if err := os.Remove(filepath.Join(f.cfg.Tools.Dir, "lame")); err != nil {
		t.Fatalf("remove stub: %v", err)
	}
	t.Setenv("PATH", f.cfg.Tools.Dir)

	_, err := f.conv.Convert(context.Background(), f.conv.DefaultRequest(f.cue))
	if !errors.Is(err, deps.ErrMissingTool) || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected missing tool error, got %v", err)
	}
}

func TestConvertSplitFailureIsRecorded(t *testing.T) {
	f := newFixture(t)
	f.splitter.splitErr = services.Wrap(services.ErrExternalTool, "split", "shnsplit", "boom", nil)

	_, err := f.conv.Convert(context.Background(), f.conv.DefaultRequest(f.cue))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if run := f.latestRun(t); run.Status != history.StatusFailed {
		t.Fatalf("expected failed run, got %+v", run)
	}
}

func TestConvertWithoutCuesheet(t *testing.T) {
	f := newFixture(t)
	lonely := filepath.Join(t.TempDir(), "lonely.flac")
	testsupport.WriteFile(t, lonely, 8)

	_, err := f.conv.Convert(context.Background(), f.conv.DefaultRequest(lonely))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
