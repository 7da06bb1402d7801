package tagcollect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"cuekit/internal/cuesheet"
	"cuekit/internal/logging"
)

// Placeholder stands in for missing tag values.
const Placeholder = "empty"

// ErrEmptyFields is returned when tags are missing and placeholders were not allowed.
var ErrEmptyFields = errors.New("tracks contain empty fields")

// Mode selects how album-level fields are derived.
type Mode string

const (
	// ModeSingle is one artist's album: album fields come from the tags.
	ModeSingle Mode = "single"
	// ModeVarious is a compilation: genre and date move to each track.
	ModeVarious Mode = "various"
)

// ParseMode converts user input into a Mode.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeSingle:
		return ModeSingle, nil
	case ModeVarious:
		return ModeVarious, nil
	}
	return "", fmt.Errorf("%w: album type %q (use single or various)", cuesheet.ErrInvalidArgument, value)
}

// TagReader returns the lowercase tags of a media file.
type TagReader interface {
	ReadTags(ctx context.Context, path string) (map[string]string, error)
}

// Warning describes a missing value.
type Warning struct {
	File  string `json:"file,omitempty"`
	Field string `json:"field"`
}

func (w Warning) String() string {
	if w.File == "" {
		return w.Field + " is unknown"
	}
	return fmt.Sprintf("%q: %s is empty", w.File, w.Field)
}

// Collector builds cuesheets from track tags.
type Collector struct {
	Reader     TagReader
	Mode       Mode
	AllowEmpty bool
	Logger     *slog.Logger
}

// Result holds the generated cuesheet and every missing-value warning.
type Result struct {
	Lines    []string  `json:"lines"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Collect reads the tags of files, in the given order, and renders a
// cuesheet. Unreadable files count as untagged. When any value is missing
// and AllowEmpty is false, the warnings come back with ErrEmptyFields.
func (c *Collector) Collect(ctx context.Context, files []string) (*Result, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no track files", cuesheet.ErrInvalidArgument)
	}
	if c.Reader == nil {
		return nil, errors.New("tagcollect: no tag reader configured")
	}
	mode := c.Mode
	if mode == "" {
		mode = ModeSingle
	}
	logger := logging.NewComponentLogger(c.Logger, "tagcollect")

	store := make([]map[string]string, len(files))
	for i, file := range files {
		tags, err := c.Reader.ReadTags(ctx, file)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("tags unreadable", logging.String("file", file), logging.Error(err))
			tags = map[string]string{}
		}
		store[i] = tags
	}

	result := &Result{Warnings: check(mode, files, store)}
	if len(result.Warnings) > 0 && !c.AllowEmpty {
		return result, fmt.Errorf("%w (%d missing values, allow placeholders to continue)", ErrEmptyFields, len(result.Warnings))
	}
	result.Lines = render(mode, files, store)
	return result, nil
}

func check(mode Mode, files []string, store []map[string]string) []Warning {
	var warnings []Warning
	perTrack := []string{"artist", "title"}
	if mode == ModeVarious {
		perTrack = append(perTrack, "genre", "date")
	} else {
		for _, field := range []string{"genre", "album", "date"} {
			if firstValue(field, store) == "" {
				warnings = append(warnings, Warning{Field: field})
			}
		}
	}
	for i, tags := range store {
		for _, field := range perTrack {
			if tags[field] == "" {
				warnings = append(warnings, Warning{File: filepath.Base(files[i]), Field: field})
			}
		}
	}
	return warnings
}

func firstValue(field string, store []map[string]string) string {
	for _, tags := range store {
		if value := tags[field]; value != "" {
			return value
		}
	}
	return ""
}

func valueOrPlaceholder(value string) string {
	if value == "" {
		return Placeholder
	}
	return value
}

// TrackNumbers returns 1-based numbers zero-padded to at least two digits,
// wider when n needs it.
func TrackNumbers(n int) []string {
	width := max(len(strconv.Itoa(n)), 2)
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%0*d", width, i+1)
	}
	return out
}

func render(mode Mode, files []string, store []map[string]string) []string {
	var genre, date, performer, title string
	if mode == ModeVarious {
		performer, title = "Various Artists", "Collection"
	} else {
		genre = valueOrPlaceholder(firstValue("genre", store))
		date = valueOrPlaceholder(firstValue("date", store))
		performer = valueOrPlaceholder(store[0]["artist"])
		title = valueOrPlaceholder(firstValue("album", store))
	}

	lines := []string{
		fmt.Sprintf("REM GENRE \"%s\"", genre),
		fmt.Sprintf("REM DATE \"%s\"", date),
		fmt.Sprintf("REM COMMENT \"%s\"", cuesheet.Generator()),
		fmt.Sprintf("PERFORMER \"%s\"", performer),
		fmt.Sprintf("TITLE \"%s\"", title),
	}
	for i, number := range TrackNumbers(len(files)) {
		tags := store[i]
		lines = append(lines,
			fmt.Sprintf("  TRACK %s AUDIO", number),
			fmt.Sprintf("    FILE \"%s\"", filepath.Base(files[i])),
			fmt.Sprintf("    TITLE \"%s\"", valueOrPlaceholder(tags["title"])),
			fmt.Sprintf("    PERFORMER \"%s\"", valueOrPlaceholder(tags["artist"])),
		)
		if mode == ModeVarious {
			lines = append(lines,
				fmt.Sprintf("    TGENRE \"%s\"", valueOrPlaceholder(tags["genre"])),
				fmt.Sprintf("    TDATE %s", valueOrPlaceholder(tags["date"])),
			)
		}
	}
	return lines
}
