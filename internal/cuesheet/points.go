package cuesheet

import (
	"fmt"
	"strings"

	"cuekit/internal/timecode"
)

// Policy decides how pre-gaps are attributed to output tracks.
type Policy string

const (
	// PolicyAppend attaches each pre-gap to the end of the previous track.
	PolicyAppend Policy = "append"
	// PolicyPrepend attaches each pre-gap to the start of its own track.
	PolicyPrepend Policy = "prepend"
	// PolicySplit cuts pre-gaps into separate segments.
	PolicySplit Policy = "split"
)

// Policies lists every supported policy.
var Policies = []Policy{PolicyAppend, PolicyPrepend, PolicySplit}

// ParsePolicy validates a policy name.
func ParsePolicy(value string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(value)))
	switch p {
	case PolicyAppend, PolicyPrepend, PolicySplit:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q is not a valid policy", ErrInvalidArgument, value)
}

// Encoding selects the text form of split points.
type Encoding int

const (
	// EncodingFrames renders "MM:SS.FF" for CD-quality images.
	EncodingFrames Encoding = iota
	// EncodingMilliseconds renders "MM:SS.FFF" for other images.
	EncodingMilliseconds
)

// Point is a split point together with the kind of mark it came from.
type Point struct {
	Track  string
	Mark   timecode.Frame
	PreGap bool
}

// SiftMarks selects the split marks for policy in track order.
func SiftMarks(table IndexTable, policy Policy) ([]Point, error) {
	switch policy {
	case PolicyAppend, PolicyPrepend, PolicySplit:
	default:
		return nil, fmt.Errorf("%w: %q is not a valid policy", ErrInvalidArgument, string(policy))
	}
	if len(table) == 0 {
		return nil, invalidCue("no indices")
	}
	first := table.First()
	points := make([]Point, 0, len(table))
	for _, id := range table.IDs() {
		marks := table[id]
		switch policy {
		case PolicyAppend:
			if id == first {
				continue
			}
			if marks.Start.Absent() {
				return nil, invalidCue("bad indices for track %s", id)
			}
			points = append(points, Point{Track: id, Mark: marks.Start})
		case PolicyPrepend:
			if id == first {
				continue
			}
			switch {
			case !marks.PreGap.Absent():
				points = append(points, Point{Track: id, Mark: marks.PreGap, PreGap: true})
			case !marks.Start.Absent():
				points = append(points, Point{Track: id, Mark: marks.Start})
			default:
				return nil, invalidCue("bad indices for track %s", id)
			}
		case PolicySplit:
			if !marks.PreGap.Absent() {
				points = append(points, Point{Track: id, Mark: marks.PreGap, PreGap: true})
			}
			if !marks.Start.Absent() {
				points = append(points, Point{Track: id, Mark: marks.Start})
			}
		}
	}
	return points, nil
}

// SiftPoints returns the split points for policy rendered in enc.
func SiftPoints(table IndexTable, policy Policy, enc Encoding) ([]string, error) {
	marks, err := SiftMarks(table, policy)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(marks))
	for _, p := range marks {
		text, err := formatPoint(p.Mark, enc)
		if err != nil {
			return nil, fmt.Errorf("%w: track %s: %w", ErrInvalidCue, p.Track, err)
		}
		out = append(out, text)
	}
	return out, nil
}

func formatPoint(mark timecode.Frame, enc Encoding) (string, error) {
	switch enc {
	case EncodingFrames:
		return mark.SplitPoint()
	case EncodingMilliseconds:
		s, err := mark.SecondEncoding()
		return string(s), err
	default:
		return "", fmt.Errorf("%w: unknown encoding %d", ErrInvalidArgument, enc)
	}
}

// GapSegments returns the 1-based positions of the segments that hold only
// pre-gap audio when table is split with PolicySplit. The first segment
// starts at the stream origin; each split point starts the next one.
func GapSegments(table IndexTable) ([]int, error) {
	points, err := SiftMarks(table, PolicySplit)
	if err != nil {
		return nil, err
	}
	var gaps []int
	first := table.First()
	if len(points) > 0 && points[0].Track == first {
		gaps = append(gaps, 1)
	}
	for i, p := range points {
		if p.PreGap {
			gaps = append(gaps, i+2)
		}
	}
	return gaps, nil
}
