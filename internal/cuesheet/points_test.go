package cuesheet_test

import (
	"errors"
	"reflect"
	"testing"

	"cuekit/internal/cuesheet"
)

func TestSiftPointsTwoTracks(t *testing.T) {
	table := cuesheet.IndexTable{
		"01": {},
		"02": {Start: "03:00:00"},
	}
	for _, policy := range cuesheet.Policies {
		got, err := cuesheet.SiftPoints(table, policy, cuesheet.EncodingFrames)
		if err != nil {
			t.Fatalf("%s: SiftPoints returned error: %v", policy, err)
		}
		if !reflect.DeepEqual(got, []string{"03:00.00"}) {
			t.Fatalf("%s: got %v, want [03:00.00]", policy, got)
		}
	}
}

func TestSiftPointsPolicies(t *testing.T) {
	table, err := cuesheet.ExtractIndex(lines(sampleCue))
	if err != nil {
		t.Fatalf("ExtractIndex: %v", err)
	}
	cases := []struct {
		policy cuesheet.Policy
		enc    cuesheet.Encoding
		want   []string
	}{
		{cuesheet.PolicyAppend, cuesheet.EncodingFrames, []string{"04:12.00", "08:30.74"}},
		{cuesheet.PolicyPrepend, cuesheet.EncodingFrames, []string{"04:10.20", "08:30.74"}},
		{cuesheet.PolicySplit, cuesheet.EncodingFrames, []string{"04:10.20", "04:12.00", "08:30.74"}},
		{cuesheet.PolicyAppend, cuesheet.EncodingMilliseconds, []string{"04:12.000", "08:30.987"}},
		{cuesheet.PolicyPrepend, cuesheet.EncodingMilliseconds, []string{"04:10.267", "08:30.987"}},
	}
	for _, tc := range cases {
		got, err := cuesheet.SiftPoints(table, tc.policy, tc.enc)
		if err != nil {
			t.Fatalf("%s: %v", tc.policy, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s/%d: got %v, want %v", tc.policy, tc.enc, got, tc.want)
		}
	}
}

func TestSiftPointsAppendCardinality(t *testing.T) {
	table := cuesheet.IndexTable{
		"01": {},
		"02": {Start: "01:00:00"},
		"03": {PreGap: "01:58:00", Start: "02:00:00"},
		"04": {Start: "03:00:00"},
	}
	for _, policy := range []cuesheet.Policy{cuesheet.PolicyAppend, cuesheet.PolicyPrepend} {
		got, err := cuesheet.SiftPoints(table, policy, cuesheet.EncodingFrames)
		if err != nil {
			t.Fatalf("%s: %v", policy, err)
		}
		if len(got) != table.TrackCount()-1 {
			t.Fatalf("%s: expected %d points, got %v", policy, table.TrackCount()-1, got)
		}
	}
}

func TestSiftPointsPrependKeepsZeroPreGap(t *testing.T) {
	table := cuesheet.IndexTable{
		"01": {},
		"02": {PreGap: "00:00:00", Start: "00:02:00"},
	}
	got, err := cuesheet.SiftPoints(table, cuesheet.PolicyPrepend, cuesheet.EncodingFrames)
	if err != nil {
		t.Fatalf("SiftPoints: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"00:00.00"}) {
		t.Fatalf("got %v, want the zero pre-gap", got)
	}
}

func TestSiftPointsInvalidPolicy(t *testing.T) {
	table := cuesheet.IndexTable{"01": {}, "02": {Start: "03:00:00"}}
	_, err := cuesheet.SiftPoints(table, cuesheet.Policy("merge"), cuesheet.EncodingFrames)
	if !errors.Is(err, cuesheet.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := cuesheet.ParsePolicy("bogus"); !errors.Is(err, cuesheet.ErrInvalidArgument) {
		t.Fatalf("ParsePolicy: expected ErrInvalidArgument, got %v", err)
	}
	if p, err := cuesheet.ParsePolicy(" Split "); err != nil || p != cuesheet.PolicySplit {
		t.Fatalf("ParsePolicy(Split) = %q, %v", p, err)
	}
}

func TestSiftPointsMissingStart(t *testing.T) {
	table := cuesheet.IndexTable{"01": {}, "02": {PreGap: "03:00:00"}}
	if _, err := cuesheet.SiftPoints(table, cuesheet.PolicyAppend, cuesheet.EncodingFrames); !errors.Is(err, cuesheet.ErrInvalidCue) {
		t.Fatalf("expected ErrInvalidCue, got %v", err)
	}
}

func TestGapSegments(t *testing.T) {
	table := cuesheet.IndexTable{
		"01": {Start: "00:00:32"},
		"02": {PreGap: "04:10:20", Start: "04:12:00"},
		"03": {Start: "08:30:74"},
	}
	gaps, err := cuesheet.GapSegments(table)
	if err != nil {
		t.Fatalf("GapSegments: %v", err)
	}
	// segments: 1 lead-in, 2 track 01, 3 gap, 4 track 02, 5 track 03
	if !reflect.DeepEqual(gaps, []int{1, 3}) {
		t.Fatalf("GapSegments = %v, want [1 3]", gaps)
	}

	plain := cuesheet.IndexTable{"01": {}, "02": {Start: "03:00:00"}}
	gaps, err = cuesheet.GapSegments(plain)
	if err != nil {
		t.Fatalf("GapSegments: %v", err)
	}
	if len(gaps) != 0 {
		t.Fatalf("expected no gaps, got %v", gaps)
	}
}
