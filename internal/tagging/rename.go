package tagging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuekit/internal/cuesheet"
	"cuekit/internal/textutil"
)

// TrackFileName returns "NN - artist - title.ext" for the track at step,
// keeping the number as written in the cuesheet.
func TrackFileName(meta *cuesheet.Metadata, step int, ext string) string {
	track := meta.Track(step)
	return fmt.Sprintf("%s - %s - %s%s",
		track.Number,
		textutil.SanitizeTrackField(track.Performer),
		textutil.SanitizeTrackField(track.Title),
		strings.ToLower(ext),
	)
}

// Rename moves file to its tag-derived name in the same directory and
// returns the new path.
func Rename(file string, meta *cuesheet.Metadata, step int) (string, error) {
	target := filepath.Join(filepath.Dir(file), TrackFileName(meta, step, filepath.Ext(file)))
	if target == file {
		return file, nil
	}
	if err := os.Rename(file, target); err != nil {
		return "", fmt.Errorf("rename %s: %w", filepath.Base(file), err)
	}
	return target, nil
}
