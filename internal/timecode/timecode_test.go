package timecode_test

import (
	"errors"
	"math"
	"testing"

	"cuekit/internal/timecode"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFrameSeconds(t *testing.T) {
	cases := []struct {
		in   timecode.Frame
		want float64
	}{
		{"00:00:00", 0},
		{"00:01:74", 1.987},
		{"03:00:00", 180},
		{"01:02:37", 62.493},
		{"72:59:74", 72*60 + 59.987},
	}
	for _, tc := range cases {
		got, err := tc.in.Seconds()
		if err != nil {
			t.Fatalf("Seconds(%q) returned error: %v", tc.in, err)
		}
		if !almostEqual(got, tc.want) {
			t.Fatalf("Seconds(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFrameSecondsRejectsOutOfRange(t *testing.T) {
	for _, in := range []timecode.Frame{"00:01:75", "00:60:00", "garbage", "", "1:2"} {
		if _, err := in.Seconds(); !errors.Is(err, timecode.ErrInvalidTimecode) {
			t.Fatalf("Seconds(%q) error = %v, want ErrInvalidTimecode", in, err)
		}
	}
}

func TestFrameSecondsMonotonic(t *testing.T) {
	prev := -1.0
	for ss := 0; ss < 3; ss++ {
		for ff := 0; ff < timecode.FramesPerSecond; ff++ {
			text := timecode.Frame(formatFrame(0, ss, ff))
			got, err := text.Seconds()
			if err != nil {
				t.Fatalf("Seconds(%q): %v", text, err)
			}
			if got <= prev {
				t.Fatalf("Seconds(%q) = %v not greater than previous %v", text, got, prev)
			}
			prev = got
		}
	}
}

func formatFrame(mm, ss, ff int) string {
	digits := func(v int) string {
		return string([]byte{byte('0' + v/10), byte('0' + v%10)})
	}
	return digits(mm) + ":" + digits(ss) + ":" + digits(ff)
}

func TestSecondSeconds(t *testing.T) {
	cases := []struct {
		in   timecode.Second
		want float64
	}{
		{"00:01:987", 1.987},
		{"03:00.000", 180},
		{"4:05.5", 245.005},
	}
	for _, tc := range cases {
		got, err := tc.in.Seconds()
		if err != nil {
			t.Fatalf("Seconds(%q) returned error: %v", tc.in, err)
		}
		if !almostEqual(got, tc.want) {
			t.Fatalf("Seconds(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := timecode.Second("1-2-3").Seconds(); !errors.Is(err, timecode.ErrInvalidTimecode) {
		t.Fatalf("expected ErrInvalidTimecode for malformed text, got %v", err)
	}
}

func TestFrameSecondEncoding(t *testing.T) {
	cases := map[timecode.Frame]timecode.Second{
		"00:01:74": "00:01.987",
		"03:00:00": "03:00.000",
		"12:34:01": "12:34.013",
	}
	for in, want := range cases {
		got, err := in.SecondEncoding()
		if err != nil {
			t.Fatalf("SecondEncoding(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("SecondEncoding(%q) = %q, want %q", in, got, want)
		}
		fromFrame, _ := in.Seconds()
		fromText, err := got.Seconds()
		if err != nil {
			t.Fatalf("re-parse %q: %v", got, err)
		}
		if !almostEqual(fromFrame, fromText) {
			t.Fatalf("round trip mismatch for %q: %v vs %v", in, fromFrame, fromText)
		}
	}
}

func TestFrameSplitPoint(t *testing.T) {
	got, err := timecode.Frame("03:00:00").SplitPoint()
	if err != nil {
		t.Fatalf("SplitPoint: %v", err)
	}
	if got != "03:00.00" {
		t.Fatalf("SplitPoint = %q, want 03:00.00", got)
	}
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00.0"},
		{1.987, "00:02.0"},
		{59.96, "01:00.0"},
		{125.34, "02:05.3"},
		{3599.99, "60:00.0"},
	}
	for _, tc := range cases {
		if got := timecode.Display(tc.in); got != tc.want {
			t.Fatalf("Display(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseLength(t *testing.T) {
	got, err := timecode.ParseLength("41:06.40", true)
	if err != nil {
		t.Fatalf("ParseLength cdda: %v", err)
	}
	if !almostEqual(got, 41*60+6.533) {
		t.Fatalf("ParseLength cdda = %v", got)
	}
	got, err = timecode.ParseLength("41:06.400", false)
	if err != nil {
		t.Fatalf("ParseLength: %v", err)
	}
	if !almostEqual(got, 41*60+6.4) {
		t.Fatalf("ParseLength = %v", got)
	}
}
