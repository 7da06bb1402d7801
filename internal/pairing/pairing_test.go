package pairing_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuekit/internal/cuesheet"
	"cuekit/internal/pairing"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	return resolved
}

func TestResolveFromCue(t *testing.T) {
	dir := t.TempDir()
	cue := touch(t, dir, "album.cue")
	media := touch(t, dir, "album.flac")
	touch(t, dir, "other.flac")

	pair, err := pairing.Resolve(cue)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if pair.Cue != cue || pair.Media != media {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if !pair.Complete() {
		t.Fatal("expected complete pair")
	}
}

func TestResolveFromMedia(t *testing.T) {
	dir := t.TempDir()
	cue := touch(t, dir, "Album.CUE")
	media := touch(t, dir, "Album.ape")

	pair, err := pairing.Resolve(media)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if pair.Cue != cue || pair.Media != media {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestResolveMissingPartner(t *testing.T) {
	dir := t.TempDir()
	cue := touch(t, dir, "lonely.cue")
	pair, err := pairing.Resolve(cue)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if pair.Media != "" || pair.Complete() {
		t.Fatalf("expected no media, got %+v", pair)
	}
}

func TestResolvePrefersExtensionPriority(t *testing.T) {
	dir := t.TempDir()
	cue := touch(t, dir, "album.cue")
	touch(t, dir, "album.wav")
	touch(t, dir, "album.wv")
	flac := touch(t, dir, "album.FLAC")

	for i := 0; i < 3; i++ {
		pair, err := pairing.Resolve(cue)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if pair.Media != flac {
			t.Fatalf("expected flac to win, got %q", pair.Media)
		}
	}
}

func TestResolveUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "notes.txt")
	if _, err := pairing.Resolve(path); !errors.Is(err, cuesheet.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestResolveMissingSource(t *testing.T) {
	_, err := pairing.Resolve(filepath.Join(t.TempDir(), "gone.cue"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestIsMedia(t *testing.T) {
	for _, name := range []string{"a.flac", "b.APE", "c.wv", "d.Wav"} {
		if !pairing.IsMedia(name) {
			t.Fatalf("expected %s to be media", name)
		}
	}
	if pairing.IsMedia("e.mp3") {
		t.Fatal("mp3 is not a splittable image")
	}
}

func TestResolveFollowsLinkNameNotTarget(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "other"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := touch(t, filepath.Join(dir, "other"), "rip-0001.cue")
	touch(t, filepath.Join(dir, "other"), "rip-0001.flac")
	media := touch(t, dir, "album.flac")
	link := filepath.Join(dir, "album.cue")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	pair, err := pairing.Resolve(link)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if pair.Media != media {
		t.Fatalf("expected media %s next to the link, got %s", media, pair.Media)
	}
	if pair.Cue != target {
		t.Fatalf("expected resolved cue %s, got %s", target, pair.Cue)
	}
}

func TestCueForKeepsLinkDirectory(t *testing.T) {
	realDir := t.TempDir()
	touch(t, realDir, "album.cue")
	touch(t, realDir, "album.wv")
	link := filepath.Join(t.TempDir(), "drop")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := pairing.CueFor(filepath.Join(link, "album.wv"))
	if err != nil {
		t.Fatalf("CueFor returned error: %v", err)
	}
	if got != filepath.Join(link, "album.cue") {
		t.Fatalf("expected cuesheet under the link, got %s", got)
	}
	if pairing.CanonicalPath(got) != filepath.Join(realPathOf(t, realDir), "album.cue") {
		t.Fatalf("CanonicalPath(%s) = %s", got, pairing.CanonicalPath(got))
	}

	if got, err := pairing.CueFor(filepath.Join(realDir, "other.flac")); err != nil || got != "" {
		t.Fatalf("expected no cuesheet, got %q err=%v", got, err)
	}
}

func realPathOf(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	return resolved
}
