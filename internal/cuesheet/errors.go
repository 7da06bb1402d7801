package cuesheet

import (
	"errors"
	"fmt"

	"cuekit/internal/timecode"
)

var (
	ErrInvalidTimecode = timecode.ErrInvalidTimecode
	ErrInvalidCue      = errors.New("invalid cuesheet")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnsupportedFile = errors.New("unsupported file")
)

func invalidCue(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCue, fmt.Sprintf(format, args...))
}
