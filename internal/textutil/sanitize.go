package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. Runs of whitespace collapse to one space.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.Join(strings.Fields(fileNameReplacer.Replace(name)), " ")
}

// trackNameReplacer maps every character renamed tracks may not contain to a tilde.
var trackNameReplacer = strings.NewReplacer(
	"\\", "~",
	"/", "~",
	"|", "~",
	"?", "~",
	"<", "~",
	">", "~",
	"*", "~",
	":", "~",
)

// SanitizeTrackField prepares an artist or title for a renamed track file.
// Unlike SanitizeFileName it keeps the text length intact so that names
// stay recognisable, e.g. "AC/DC" becomes "AC~DC".
func SanitizeTrackField(value string) string {
	return trackNameReplacer.Replace(value)
}
