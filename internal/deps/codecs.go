package deps

import (
	"fmt"
	"sort"
	"strings"
)

// Output formats an image can be split into.
const (
	FormatFLAC = "flac"
	FormatOgg  = "ogg"
	FormatOpus = "opus"
	FormatMP3  = "mp3"
)

var encoders = map[string]Requirement{
	FormatFLAC: {Name: "FLAC encoder", Command: "flac", Description: "Encodes FLAC tracks"},
	FormatOgg:  {Name: "Vorbis encoder", Command: "oggenc", Description: "Encodes Ogg Vorbis tracks"},
	FormatOpus: {Name: "Opus encoder", Command: "opusenc", Description: "Encodes Opus tracks"},
	FormatMP3:  {Name: "MP3 encoder", Command: "lame", Description: "Encodes MP3 tracks"},
}

// WAV images are read by shntool itself.
var decoders = map[string]Requirement{
	".flac": {Name: "FLAC decoder", Command: "flac", Description: "Decodes FLAC images"},
	".ape":  {Name: "Monkey's Audio decoder", Command: "mac", Description: "Decodes APE images"},
	".wv":   {Name: "WavPack decoder", Command: "wvunpack", Description: "Decodes WavPack images"},
}

// Formats returns the supported output formats in sorted order.
func Formats() []string {
	out := make([]string, 0, len(encoders))
	for name := range encoders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// EncoderFor returns the encoder requirement for an output format.
func EncoderFor(format string) (Requirement, error) {
	req, ok := encoders[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return Requirement{}, fmt.Errorf("unsupported output format %q", format)
	}
	return req, nil
}

// DecoderFor returns the decoder requirement for an image extension. The
// second result is false when shntool reads the format natively.
func DecoderFor(ext string) (Requirement, bool) {
	req, ok := decoders[strings.ToLower(ext)]
	return req, ok
}

// Shntool is the requirement for the splitting toolkit.
func Shntool(command string) Requirement {
	if strings.TrimSpace(command) == "" {
		command = "shnsplit"
	}
	return Requirement{Name: "shntool", Command: command, Description: "Splits images into tracks"}
}

// Catalog returns every external program cuekit may use, for status output.
// tools maps the configurable helper names (shnsplit, shnlen, shnhash,
// ffmpeg, ffprobe) to their commands.
func Catalog(tools map[string]string) []Requirement {
	command := func(name string) string {
		if value := strings.TrimSpace(tools[name]); value != "" {
			return value
		}
		return name
	}
	reqs := []Requirement{
		Shntool(command("shnsplit")),
		{Name: "shnlen", Command: command("shnlen"), Description: "Measures image length"},
		{Name: "shnhash", Command: command("shnhash"), Description: "Computes image checksums", Optional: true},
		{Name: "FFmpeg", Command: command("ffmpeg"), Description: "Writes track tags"},
		{Name: "FFprobe", Command: command("ffprobe"), Description: "Reads track tags", Optional: true},
	}
	for _, ext := range []string{".flac", ".ape", ".wv"} {
		req := decoders[ext]
		req.Optional = true
		reqs = append(reqs, req)
	}
	for _, format := range Formats() {
		req := encoders[format]
		req.Optional = true
		reqs = append(reqs, req)
	}
	return reqs
}
