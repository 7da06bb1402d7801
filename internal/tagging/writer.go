package tagging

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"cuekit/internal/deps"
	"cuekit/internal/logging"
	"cuekit/internal/services"
)

// Writer replaces the tags of encoded tracks using ffmpeg stream copy.
type Writer struct {
	FFmpeg  string
	Locator deps.Locator
	Logger  *slog.Logger
}

// NewWriter constructs a Writer using the named ffmpeg binary.
func NewWriter(ffmpeg string, locator deps.Locator, logger *slog.Logger) *Writer {
	return &Writer{
		FFmpeg:  ffmpeg,
		Locator: locator,
		Logger:  logging.NewComponentLogger(logger, "tagger"),
	}
}

// Write drops every existing tag on file and writes tags instead. The result
// goes to a temporary file next to the original, which then replaces it.
func (w *Writer) Write(ctx context.Context, file string, tags []Tag) error {
	binary, err := w.binary()
	if err != nil {
		return err
	}
	dir, base := filepath.Split(file)
	ext := filepath.Ext(base)
	tmp := filepath.Join(dir, "."+strings.TrimSuffix(base, ext)+".tagging"+ext)

	cmd := exec.CommandContext(ctx, binary, buildArgs(file, tmp, tags)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrExternalTool, "tag", "ffmpeg", lastLine(stderr.String()), err)
	}
	if err := os.Rename(tmp, file); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", file, err)
	}
	if w.Logger != nil {
		w.Logger.Debug("tags written", logging.String("file", file), logging.Int("tags", len(tags)))
	}
	return nil
}

func buildArgs(input, output string, tags []Tag) []string {
	args := []string{"-y", "-v", "error", "-i", input, "-map", "0", "-c", "copy", "-map_metadata", "-1"}
	for _, tag := range tags {
		if tag.Value == "" {
			continue
		}
		args = append(args, "-metadata", fmt.Sprintf("%s=%s", tag.Key, tag.Value))
	}
	return append(args, output)
}

func (w *Writer) binary() (string, error) {
	name := strings.TrimSpace(w.FFmpeg)
	if name == "" {
		name = "ffmpeg"
	}
	locator := w.Locator
	if locator == nil {
		locator = deps.PathLocator{}
	}
	path, err := locator.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", deps.ErrMissingTool, name)
	}
	return path, nil
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
