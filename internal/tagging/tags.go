package tagging

import (
	"strconv"
	"strings"

	"cuekit/internal/cuesheet"
	"cuekit/internal/deps"
)

// Tag is one metadata key/value pair in the order it is written.
type Tag struct {
	Key   string
	Value string
}

// BuildTags resolves the tags for the track at position step. Vorbis-comment
// formats get separate tracknumber and tracktotal fields; MP3 gets a single
// "n/total" track frame. Track genre and date override the album values.
func BuildTags(format string, meta *cuesheet.Metadata, step int) []Tag {
	track := meta.Track(step)
	number := trimNumber(track.Number)
	total := trimNumber(meta.LastTrackNumber())

	tags := []Tag{
		{Key: "artist", Value: track.Performer},
		{Key: "album", Value: meta.Title},
	}
	if track.Genre != "" {
		tags = append(tags, Tag{Key: "genre", Value: track.Genre})
	}
	tags = append(tags, Tag{Key: "title", Value: track.Title})
	if strings.EqualFold(format, deps.FormatMP3) {
		tags = append(tags, Tag{Key: "track", Value: number + "/" + total})
	} else {
		tags = append(tags,
			Tag{Key: "tracknumber", Value: number},
			Tag{Key: "tracktotal", Value: total},
		)
	}
	if track.Date != "" {
		tags = append(tags, Tag{Key: "date", Value: track.Date})
	}
	tags = append(tags, Tag{Key: "comment", Value: meta.DisplayComment})
	return tags
}

// trimNumber drops leading zeros: "07" becomes "7".
func trimNumber(value string) string {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return strconv.Itoa(n)
	}
	return value
}
