// Package cuesheet parses cuesheet text into album metadata and a per-track
// index table, and derives the split points an image splitter needs.
//
// Parsing is driven by a fixed catalog of line patterns compiled once at
// package init. ExtractMetadata and ExtractIndex consume the same decoded
// line slice independently; SiftPoints turns a validated IndexTable into an
// ordered list of split points for one of the append, prepend, or split
// policies. Every function here is pure and safe for concurrent use on
// independent inputs.
//
// Errors wrap ErrInvalidCue, ErrInvalidTimecode, ErrInvalidArgument, or
// ErrUnsupportedFile so callers can classify them with errors.Is.
package cuesheet
