package cuesheet

import (
	"regexp"
	"strings"
)

// Field names a piece of information a cuesheet line can carry.
type Field string

const (
	FieldAlbumPerformer Field = "album_performer"
	FieldAlbumTitle     Field = "album_title"
	FieldGenre          Field = "genre"
	FieldDiscID         Field = "disc_id"
	FieldDate           Field = "date"
	FieldComment        Field = "comment"
	FieldTrackTitle     Field = "track_title"
	FieldTrackPerformer Field = "track_performer"
	FieldTrackGenre     Field = "track_genre"
	FieldTrackDate      Field = "track_date"
	FieldTrackNumber    Field = "track_number"
	FieldPreGap         Field = "index_00"
	FieldStart          Field = "index_01"
)

// rule extracts one field. Singular rules keep the first match; repeated
// rules collect every match in line order.
type rule struct {
	field    Field
	pattern  *regexp.Regexp
	repeated bool
}

// Album lines start at column zero, track lines are indented.
var catalog = []rule{
	{field: FieldAlbumPerformer, pattern: regexp.MustCompile(`^PERFORMER[ \t]+(.+)`)},
	{field: FieldAlbumTitle, pattern: regexp.MustCompile(`^TITLE[ \t]+(.+)`)},
	{field: FieldGenre, pattern: regexp.MustCompile(`^REM GENRE[ \t]+(.+)`)},
	{field: FieldDiscID, pattern: regexp.MustCompile(`^REM DISCID[ \t]+(.+)`)},
	{field: FieldDate, pattern: regexp.MustCompile(`^REM DATE[ \t]+(.+)`)},
	{field: FieldComment, pattern: regexp.MustCompile(`^REM COMMENT[ \t]+(.+)`)},
	{field: FieldTrackTitle, pattern: regexp.MustCompile(`^[ \t]+TITLE[ \t]+(.+)`), repeated: true},
	{field: FieldTrackPerformer, pattern: regexp.MustCompile(`^[ \t]+PERFORMER[ \t]+(.+)`), repeated: true},
	{field: FieldTrackGenre, pattern: regexp.MustCompile(`^[ \t]+TGENRE[ \t]+(.+)`), repeated: true},
	{field: FieldTrackDate, pattern: regexp.MustCompile(`^[ \t]+TDATE[ \t]+(.+)`), repeated: true},
	{field: FieldTrackNumber, pattern: regexp.MustCompile(`^[ \t]+TRACK[ \t]+(\d+)[ \t]+(.+)`), repeated: true},
	{field: FieldPreGap, pattern: regexp.MustCompile(`^[ \t]+INDEX 00[ \t]+(\d{2,}:\d{2}:\d{2})`), repeated: true},
	{field: FieldStart, pattern: regexp.MustCompile(`^[ \t]+INDEX 01[ \t]+(\d{2,}:\d{2}:\d{2})`), repeated: true},
}

var catalogIndex = func() map[Field]rule {
	idx := make(map[Field]rule, len(catalog))
	for _, r := range catalog {
		idx[r.field] = r
	}
	return idx
}()

// match returns the captured value of field on line with surrounding quotes
// removed.
func match(field Field, line string) (string, bool) {
	r, ok := catalogIndex[field]
	if !ok {
		return "", false
	}
	m := r.pattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.Trim(strings.TrimSpace(m[1]), `"`), true
}
