package cuesheet

import (
	"cuekit/internal/buildinfo"
)

// Metadata holds album and per-track descriptive fields of a cuesheet.
// Per-track slices are parallel and indexed by track position.
type Metadata struct {
	Performer string
	Title     string
	Genre     string
	DiscID    string
	Date      string
	Comment   string

	// DisplayComment is the comment written into track tags.
	DisplayComment string

	TrackNumbers    []string
	TrackTitles     []string
	TrackPerformers []string
	// TrackGenres and TrackDates are nil when the cuesheet has no TGENRE or
	// TDATE lines.
	TrackGenres []string
	TrackDates  []string
}

// Track is the resolved view of a single track.
type Track struct {
	Number    string
	Title     string
	Performer string
	Genre     string
	Date      string
}

// Generator identifies cuekit in generated comments.
func Generator() string {
	return "generated-by-cuekit-" + buildinfo.Version
}

// ExtractMetadata scans lines once and builds validated Metadata.
func ExtractMetadata(lines []string) (*Metadata, error) {
	singular := make(map[Field]string)
	repeated := make(map[Field][]string)
	for _, line := range lines {
		for _, r := range catalog {
			if r.field == FieldPreGap || r.field == FieldStart {
				continue
			}
			value, ok := match(r.field, line)
			if !ok {
				continue
			}
			if r.repeated {
				repeated[r.field] = append(repeated[r.field], value)
				continue
			}
			if _, seen := singular[r.field]; !seen {
				singular[r.field] = value
			}
		}
	}

	meta := &Metadata{
		Performer:       singular[FieldAlbumPerformer],
		Title:           singular[FieldAlbumTitle],
		Genre:           singular[FieldGenre],
		DiscID:          singular[FieldDiscID],
		Date:            singular[FieldDate],
		Comment:         singular[FieldComment],
		TrackNumbers:    repeated[FieldTrackNumber],
		TrackTitles:     repeated[FieldTrackTitle],
		TrackPerformers: repeated[FieldTrackPerformer],
		TrackGenres:     repeated[FieldTrackGenre],
		TrackDates:      repeated[FieldTrackDate],
	}
	meta.DisplayComment = displayComment(meta.Comment, meta.DiscID)
	if len(meta.TrackPerformers) == 0 && meta.Performer != "" {
		meta.TrackPerformers = make([]string, len(meta.TrackNumbers))
		for i := range meta.TrackPerformers {
			meta.TrackPerformers[i] = meta.Performer
		}
	}
	if err := meta.validate(); err != nil {
		return nil, err
	}
	return meta, nil
}

func displayComment(comment, discID string) string {
	if comment == "" {
		comment = Generator()
	}
	if discID == "" {
		discID = "unknown disc"
	}
	return comment + "/" + discID
}

func (m *Metadata) validate() error {
	switch {
	case m.Title == "":
		return invalidCue("album title is missing")
	case m.Performer == "":
		return invalidCue("album performer is missing")
	case len(m.TrackNumbers) == 0:
		return invalidCue("no tracks")
	case len(m.TrackTitles) == 0:
		return invalidCue("no track titles")
	}
	tracks := len(m.TrackNumbers)
	if len(m.TrackTitles) != tracks {
		return invalidCue("%d track titles for %d tracks", len(m.TrackTitles), tracks)
	}
	if len(m.TrackPerformers) != tracks {
		return invalidCue("%d track performers for %d tracks", len(m.TrackPerformers), tracks)
	}
	if m.TrackGenres != nil && len(m.TrackGenres) != tracks {
		return invalidCue("%d track genres for %d tracks", len(m.TrackGenres), tracks)
	}
	if m.TrackDates != nil && len(m.TrackDates) != tracks {
		return invalidCue("%d track dates for %d tracks", len(m.TrackDates), tracks)
	}
	return nil
}

// TrackCount returns the number of tracks.
func (m *Metadata) TrackCount() int {
	return len(m.TrackNumbers)
}

// LastTrackNumber returns the number of the final track, used as the track
// total in tags.
func (m *Metadata) LastTrackNumber() string {
	if len(m.TrackNumbers) == 0 {
		return ""
	}
	return m.TrackNumbers[len(m.TrackNumbers)-1]
}

// Track returns the track at position step with album genre and date used
// when no per-track value exists.
func (m *Metadata) Track(step int) Track {
	if step < 0 || step >= len(m.TrackNumbers) {
		return Track{}
	}
	t := Track{
		Number:    m.TrackNumbers[step],
		Title:     m.TrackTitles[step],
		Performer: m.TrackPerformers[step],
		Genre:     m.Genre,
		Date:      m.Date,
	}
	if m.TrackGenres != nil {
		t.Genre = m.TrackGenres[step]
	}
	if m.TrackDates != nil {
		t.Date = m.TrackDates[step]
	}
	return t
}
