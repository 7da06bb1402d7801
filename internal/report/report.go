package report

import (
	"context"
	"fmt"
	"log/slog"

	"cuekit/internal/cuesheet"
	"cuekit/internal/logging"
	"cuekit/internal/pairing"
	"cuekit/internal/shntool"
	"cuekit/internal/timecode"
)

// Track is one row of the track table. Lengths are zero when unknown.
type Track struct {
	Number    string  `json:"number"`
	Performer string  `json:"performer"`
	Title     string  `json:"title"`
	PreGap    float64 `json:"pregap,omitempty"`
	Start     float64 `json:"start"`
	Length    float64 `json:"length,omitempty"`
}

// Album summarises a cuesheet and, when available, its image.
type Album struct {
	Performer string  `json:"performer"`
	Title     string  `json:"title"`
	Genre     string  `json:"genre,omitempty"`
	Date      string  `json:"date,omitempty"`
	DiscID    string  `json:"disc_id,omitempty"`
	Comment   string  `json:"comment,omitempty"`
	Cue       string  `json:"cue"`
	Media     string  `json:"media,omitempty"`
	Length    float64 `json:"length,omitempty"`
	CDDA      *bool   `json:"cdda,omitempty"`
	MD5       string  `json:"md5,omitempty"`
	Tracks    []Track `json:"tracks"`
}

// Prober measures images. shntool.Runner satisfies it.
type Prober interface {
	Length(ctx context.Context, media string) (shntool.Length, error)
	Hash(ctx context.Context, media string) (string, error)
}

// Options controls Generate.
type Options struct {
	Charset string
	// Hash asks for the MD5 fingerprint of the decoded audio.
	Hash   bool
	Logger *slog.Logger
}

// Build assembles an album from parsed cuesheet data. length is the image
// length in seconds, or zero when unknown; the last track then has no length.
func Build(meta *cuesheet.Metadata, table cuesheet.IndexTable, length float64) (*Album, error) {
	ids := table.IDs()
	if len(ids) != meta.TrackCount() {
		return nil, fmt.Errorf("%w: %d tracks with index marks, %d tracks described",
			cuesheet.ErrInvalidCue, len(ids), meta.TrackCount())
	}
	album := &Album{
		Performer: meta.Performer,
		Title:     meta.Title,
		Genre:     meta.Genre,
		Date:      meta.Date,
		DiscID:    meta.DiscID,
		Comment:   meta.Comment,
		Length:    length,
		Tracks:    make([]Track, len(ids)),
	}
	for i, id := range ids {
		info := meta.Track(i)
		marks := table[id]
		row := Track{Number: info.Number, Performer: info.Performer, Title: info.Title}
		var err error
		if row.Start, err = markSeconds(marks.Start); err != nil {
			return nil, err
		}
		if row.PreGap, err = markSeconds(marks.PreGap); err != nil {
			return nil, err
		}
		album.Tracks[i] = row
	}
	for i := range album.Tracks {
		end := length
		if i+1 < len(album.Tracks) {
			end = album.Tracks[i+1].Start
		}
		if end > album.Tracks[i].Start {
			album.Tracks[i].Length = end - album.Tracks[i].Start
		}
	}
	return album, nil
}

func markSeconds(mark timecode.Frame) (float64, error) {
	if mark.Absent() {
		return 0, nil
	}
	return mark.Seconds()
}

// Generate reads the cuesheet of path and, when the pair has an image and a
// prober is given, measures it. Probe failures are logged and leave the
// image fields empty.
func Generate(ctx context.Context, path string, prober Prober, opts Options) (*Album, error) {
	pair, err := pairing.Resolve(path)
	if err != nil {
		return nil, err
	}
	if pair.Cue == "" {
		return nil, fmt.Errorf("%w: no cuesheet next to %s", cuesheet.ErrUnsupportedFile, path)
	}
	lines, err := cuesheet.ReadLines(pair.Cue, opts.Charset)
	if err != nil {
		return nil, err
	}
	meta, err := cuesheet.ExtractMetadata(lines)
	if err != nil {
		return nil, err
	}
	table, err := cuesheet.ExtractIndex(lines)
	if err != nil {
		return nil, err
	}

	logger := logging.NewComponentLogger(opts.Logger, "report")
	var length float64
	var cdda *bool
	var sum string
	if pair.Media != "" && prober != nil {
		if measured, err := prober.Length(ctx, pair.Media); err != nil {
			logger.Warn("image length unavailable", logging.String("media", pair.Media), logging.Error(err))
		} else {
			length = measured.Seconds
			cdda = &measured.CDDA
		}
		if opts.Hash {
			if sum, err = prober.Hash(ctx, pair.Media); err != nil {
				logger.Warn("image hash unavailable", logging.String("media", pair.Media), logging.Error(err))
			}
		}
	}

	album, err := Build(meta, table, length)
	if err != nil {
		return nil, err
	}
	album.Cue = pair.Cue
	album.Media = pair.Media
	album.CDDA = cdda
	album.MD5 = sum
	return album, nil
}

// Duration formats seconds for display, or "-" when unknown.
func Duration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return timecode.Display(seconds)
}
