package tagcollect

import (
	"context"
	"fmt"
	"strings"

	"cuekit/internal/deps"
	"cuekit/internal/media/ffprobe"
)

// FFprobeReader reads tags through ffprobe.
type FFprobeReader struct {
	Binary  string
	Locator deps.Locator
}

// ReadTags implements TagReader.
func (r FFprobeReader) ReadTags(ctx context.Context, path string) (map[string]string, error) {
	name := strings.TrimSpace(r.Binary)
	if name == "" {
		name = "ffprobe"
	}
	locator := r.Locator
	if locator == nil {
		locator = deps.PathLocator{}
	}
	binary, err := locator.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", deps.ErrMissingTool, name)
	}
	result, err := ffprobe.Inspect(ctx, binary, path)
	if err != nil {
		return nil, err
	}
	tags := result.Tags()
	// ID3 stores the track artist as "artist" but some rippers only fill
	// album_artist.
	if tags["artist"] == "" && tags["album_artist"] != "" {
		tags["artist"] = tags["album_artist"]
	}
	return tags, nil
}
