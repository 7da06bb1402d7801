// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: audio stream properties and stream-level tags
//   - Format: container-level metadata (duration, size, bitrate, tags)
//
// Inspect executes ffprobe and returns a parsed Result. Tags and Tag give
// case-insensitive access to the metadata regardless of which level the
// container stores it on.
package ffprobe
