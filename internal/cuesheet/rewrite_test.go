package cuesheet_test

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"cuekit/internal/cuesheet"
)

func TestCopyWritesUTF8NextToSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "album.cue")
	encoded, err := charmap.Windows1251.NewEncoder().String("PERFORMER \"Кино\"\nTITLE \"Группа крови\"\n")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(src, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := cuesheet.Copy(src, "", "windows-1251", nil, func(s string) string { return "[" + s + "]" })
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if out != filepath.Join(dir, "album.cue~") {
		t.Fatalf("unexpected copy path %q", out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(data) != "PERFORMER \"[Кино]\"\nTITLE \"[Группа крови]\"\n" {
		t.Fatalf("unexpected copy:\n%s", data)
	}
}
