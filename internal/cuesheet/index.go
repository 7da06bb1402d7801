package cuesheet

import (
	"fmt"
	"sort"
	"strconv"

	"cuekit/internal/timecode"
)

// Marks are the INDEX 00 (pre-gap) and INDEX 01 (start) marks of a track.
type Marks struct {
	PreGap timecode.Frame
	Start  timecode.Frame
}

// IndexTable maps a track number, as written in the cuesheet, to its marks.
type IndexTable map[string]Marks

const zeroMark timecode.Frame = "00:00:00"

// IDs returns the track numbers in ascending numeric order.
func (t IndexTable) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA != nil || errB != nil || a == b {
			return ids[i] < ids[j]
		}
		return a < b
	})
	return ids
}

// First returns the lowest track number, or "" for an empty table.
func (t IndexTable) First() string {
	ids := t.IDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// ExtractIndex reads index marks in a single forward pass. Every INDEX line
// belongs to the most recent TRACK line; INDEX lines before the first TRACK
// are ignored.
func ExtractIndex(lines []string) (IndexTable, error) {
	table := make(IndexTable)
	current := ""
	for _, line := range lines {
		if id, ok := match(FieldTrackNumber, line); ok {
			if _, dup := table[id]; dup {
				return nil, invalidCue("track %s declared twice", id)
			}
			table[id] = Marks{}
			current = id
			continue
		}
		if current == "" {
			continue
		}
		if value, ok := match(FieldPreGap, line); ok {
			marks := table[current]
			marks.PreGap = timecode.Frame(value)
			table[current] = marks
			continue
		}
		if value, ok := match(FieldStart, line); ok {
			marks := table[current]
			marks.Start = timecode.Frame(value)
			table[current] = marks
		}
	}
	if err := table.validate(); err != nil {
		return nil, err
	}
	table.normalize()
	return table, nil
}

func (t IndexTable) validate() error {
	if len(t) == 0 {
		return invalidCue("no indices")
	}
	first := t.First()
	for _, id := range t.IDs() {
		marks := t[id]
		if id != first && marks.Start.Absent() {
			return invalidCue("bad indices for track %s", id)
		}
		for _, mark := range []timecode.Frame{marks.PreGap, marks.Start} {
			if mark.Absent() {
				continue
			}
			if _, err := mark.Seconds(); err != nil {
				return fmt.Errorf("%w: track %s: %w", ErrInvalidCue, id, err)
			}
		}
	}
	return nil
}

// normalize drops zero marks of the first track: the stream origin is never
// a split point.
func (t IndexTable) normalize() {
	first := t.First()
	marks := t[first]
	if marks.PreGap == zeroMark {
		marks.PreGap = ""
	}
	if marks.Start == zeroMark {
		marks.Start = ""
	}
	t[first] = marks
}

// TrackCount returns the number of tracks in the table.
func (t IndexTable) TrackCount() int {
	return len(t)
}
