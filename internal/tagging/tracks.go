package tagging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuekit/internal/cuesheet"
	"cuekit/internal/logging"
)

// ErrAmountMismatch reports a directory whose track files do not line up
// with the tracks of the cuesheet.
var ErrAmountMismatch = errors.New("track count mismatch")

// Result records what happened to one track file.
type Result struct {
	Source string `json:"source"`
	Final  string `json:"final"`
	Step   int    `json:"step"`
}

// Options controls TagTracks.
type Options struct {
	Format string
	// Exclude is skipped when listing files, typically the image itself.
	Exclude string
	Rename  bool
}

// TrackFiles lists *.<format> files in dir sorted by name, leaving out exclude.
func TrackFiles(dir, format, exclude string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	suffix := "." + strings.ToLower(format)
	excludeBase := filepath.Base(exclude)
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), suffix) {
			continue
		}
		if exclude != "" && name == excludeBase {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// TagTracks writes cuesheet metadata to every track file in dir, in name
// order, optionally renaming each one. The number of files must equal the
// number of tracks.
func (w *Writer) TagTracks(ctx context.Context, dir string, meta *cuesheet.Metadata, opts Options) ([]Result, error) {
	files, err := TrackFiles(dir, opts.Format, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) != meta.TrackCount() {
		return nil, fmt.Errorf("%w: %d tracks in cuesheet and %d %s files in %s",
			ErrAmountMismatch, meta.TrackCount(), len(files), opts.Format, dir)
	}
	results := make([]Result, 0, len(files))
	for step, file := range files {
		final, err := w.TagFile(ctx, file, opts.Format, meta, step, opts.Rename)
		if err != nil {
			return results, err
		}
		results = append(results, Result{Source: file, Final: final, Step: step})
	}
	return results, nil
}

// TagFile tags a single track and renames it when asked, returning the
// final path.
func (w *Writer) TagFile(ctx context.Context, file, format string, meta *cuesheet.Metadata, step int, rename bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := w.Write(ctx, file, BuildTags(format, meta, step)); err != nil {
		return "", err
	}
	if !rename {
		return file, nil
	}
	final, err := Rename(file, meta, step)
	if err != nil {
		logging.WarnWithContext(w.Logger, "track rename failed", "rename_failed",
			logging.String("file", file),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check write permission on the output directory"),
		)
		return file, nil
	}
	return final, nil
}
