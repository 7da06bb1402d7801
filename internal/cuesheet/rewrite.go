package cuesheet

import (
	"path/filepath"
	"strings"
)

var textFields = []Field{FieldAlbumPerformer, FieldAlbumTitle, FieldTrackTitle, FieldTrackPerformer}

// RewriteText applies fn to the unquoted value of every PERFORMER and TITLE line,
// album and track level alike, and returns the new lines. Other lines are
// copied unchanged.
func RewriteText(lines []string, fn func(string) string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line
		for _, field := range textFields {
			loc := catalogIndex[field].pattern.FindStringSubmatchIndex(line)
			if loc == nil {
				continue
			}
			start, end := loc[2], loc[3]
			value := line[start:end]
			if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
				start, end = start+1, end-1
			}
			out[i] = line[:start] + fn(line[start:end]) + line[end:]
			break
		}
	}
	return out
}

// CopyName returns the default file name for a UTF-8 copy of the cuesheet
// at path.
func CopyName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".cue~"
}

// Copy decodes the cuesheet at src, passes every PERFORMER and TITLE value
// through the rewrites in order, and writes a UTF-8 copy to dst. An empty
// dst selects CopyName next to src. It returns the written path.
func Copy(src, dst, charset string, rewrites ...func(string) string) (string, error) {
	lines, err := ReadLines(src, charset)
	if err != nil {
		return "", err
	}
	for _, fn := range rewrites {
		if fn != nil {
			lines = RewriteText(lines, fn)
		}
	}
	if dst == "" {
		dst = filepath.Join(filepath.Dir(src), CopyName(src))
	}
	if err := WriteLines(dst, lines); err != nil {
		return "", err
	}
	return dst, nil
}
