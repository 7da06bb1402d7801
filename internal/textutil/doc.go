// Package textutil provides the text rewriting used when naming split tracks
// and copying cuesheets.
//
//   - SanitizeFileName and SanitizeTrackField make tag values safe for paths
//   - Transliterator maps Cyrillic PERFORMER and TITLE values to Latin letters
//   - ChineseConverter wraps OpenCC for traditional/simplified conversion
package textutil
