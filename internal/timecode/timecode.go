package timecode

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// FramesPerSecond is the compact-disc audio frame rate used by INDEX marks.
const FramesPerSecond = 75

// ErrInvalidTimecode reports malformed or out-of-range timecode text.
var ErrInvalidTimecode = errors.New("invalid timecode")

// Frame is a frame-encoded timecode ("MM:SS:FF", FF in 0-74). The empty
// value means the mark is absent.
type Frame string

// Second is a millisecond-encoded timecode ("MM:SS:III" or "MM:SS.III").
// The empty value means the mark is absent.
type Second string

// The last separator may be ':' (cuesheet) or '.' (shntool output).
var layout = regexp.MustCompile(`^(\d+):(\d{1,2})[:.](\d{1,3})$`)

type parts struct {
	minutes int
	seconds int
	rest    int
}

func split(text string) (parts, error) {
	m := layout.FindStringSubmatch(text)
	if m == nil {
		return parts{}, fmt.Errorf("%w: %q", ErrInvalidTimecode, text)
	}
	var p parts
	p.minutes, _ = strconv.Atoi(m[1])
	p.seconds, _ = strconv.Atoi(m[2])
	p.rest, _ = strconv.Atoi(m[3])
	return p, nil
}

// Absent reports whether the mark is missing.
func (f Frame) Absent() bool { return f == "" }

func (f Frame) String() string { return string(f) }

func (f Frame) parse() (parts, error) {
	p, err := split(string(f))
	if err != nil {
		return parts{}, err
	}
	if p.seconds > 59 {
		return parts{}, fmt.Errorf("%w: %q: seconds out of range", ErrInvalidTimecode, string(f))
	}
	if p.rest >= FramesPerSecond {
		return parts{}, fmt.Errorf("%w: %q: frames out of range", ErrInvalidTimecode, string(f))
	}
	return p, nil
}

// milliseconds converts a frame count to rounded milliseconds and reports
// whether the result overflowed into the next second.
func milliseconds(frames int) (int, bool) {
	ms := int(math.Round(float64(frames) * 1000 / FramesPerSecond))
	if ms > 999 {
		return 0, true
	}
	return ms, false
}

// Seconds converts the timecode to a number of seconds with millisecond
// resolution.
func (f Frame) Seconds() (float64, error) {
	p, err := f.parse()
	if err != nil {
		return 0, err
	}
	whole := p.minutes*60 + p.seconds
	ms, carry := milliseconds(p.rest)
	if carry {
		whole++
	}
	return float64(whole) + float64(ms)/1000, nil
}

// SecondEncoding reformats the timecode as "MM:SS.FFF" using the same
// rounding as Seconds.
func (f Frame) SecondEncoding() (Second, error) {
	p, err := f.parse()
	if err != nil {
		return "", err
	}
	ms, carry := milliseconds(p.rest)
	if carry {
		p.seconds++
		if p.seconds > 59 {
			p.seconds = 0
			p.minutes++
		}
	}
	return Second(fmt.Sprintf("%02d:%02d.%03d", p.minutes, p.seconds, ms)), nil
}

// SplitPoint renders the timecode as "MM:SS.FF", the frame notation shnsplit
// accepts for CD-quality images.
func (f Frame) SplitPoint() (string, error) {
	p, err := f.parse()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d.%02d", p.minutes, p.seconds, p.rest), nil
}

// Absent reports whether the mark is missing.
func (s Second) Absent() bool { return s == "" }

func (s Second) String() string { return string(s) }

// Seconds converts the timecode to seconds. Only the structure is checked.
func (s Second) Seconds() (float64, error) {
	p, err := split(string(s))
	if err != nil {
		return 0, err
	}
	return float64(p.minutes*60+p.seconds) + float64(p.rest)/1000, nil
}

// Display formats seconds as "MM:SS.D" for human-readable reports.
func Display(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	whole := int(seconds)
	minutes, secs := whole/60, whole%60
	tenths := int(math.Round((seconds - float64(whole)) * 10))
	if tenths > 9 {
		tenths = 0
		secs++
		if secs > 59 {
			secs = 0
			minutes++
		}
	}
	return fmt.Sprintf("%02d:%02d.%d", minutes, secs, tenths)
}

// ParseLength converts a shnlen length column to seconds. CD-quality images
// report frames ("m:ss.ff"), everything else milliseconds ("m:ss.nnn").
func ParseLength(text string, cdda bool) (float64, error) {
	if cdda {
		return Frame(text).Seconds()
	}
	return Second(text).Seconds()
}
