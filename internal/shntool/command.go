package shntool

import (
	"fmt"
	"strings"

	"cuekit/internal/deps"
)

// SplitCommand describes one shnsplit invocation.
type SplitCommand struct {
	Binary    string
	Prefix    string
	Format    string
	Options   string
	Quiet     bool
	OutputDir string
	Media     string
}

// Encoder returns the shnsplit output specification, e.g.
// `cust ext=ogg oggenc -q 4 - -o %f`. FLAC and Vorbis encoders take the
// output file through -o; opusenc and lame take it positionally.
func (c SplitCommand) Encoder() (string, error) {
	req, err := deps.EncoderFor(c.Format)
	if err != nil {
		return "", err
	}
	format := strings.ToLower(strings.TrimSpace(c.Format))
	fields := []string{"cust", "ext=" + format, req.Command}
	if opts := strings.TrimSpace(c.Options); opts != "" {
		fields = append(fields, opts)
	}
	switch format {
	case deps.FormatFLAC, deps.FormatOgg:
		fields = append(fields, "-", "-o", "%f")
	default:
		fields = append(fields, "-", "%f")
	}
	return strings.Join(fields, " "), nil
}

// Args builds the argument vector. Split points are not part of it; they
// go to shnsplit on stdin.
func (c SplitCommand) Args() ([]string, error) {
	if strings.TrimSpace(c.Media) == "" {
		return nil, fmt.Errorf("shnsplit: media path is required")
	}
	encoder, err := c.Encoder()
	if err != nil {
		return nil, err
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	args := []string{"-a", prefix}
	if c.Quiet {
		args = append(args, "-q")
	}
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		args = append(args, "-d", dir)
	}
	args = append(args, "-o", encoder, c.Media)
	return args, nil
}

// String renders the command for logs and dry runs.
func (c SplitCommand) String() string {
	args, err := c.Args()
	if err != nil {
		return "<invalid shnsplit command: " + err.Error() + ">"
	}
	binary := c.Binary
	if binary == "" {
		binary = "shnsplit"
	}
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, binary)
	for _, arg := range args {
		if strings.ContainsAny(arg, " \t\"'") {
			arg = fmt.Sprintf("%q", arg)
		}
		quoted = append(quoted, arg)
	}
	return strings.Join(quoted, " ")
}

// DefaultPrefix names split tracks track01, track02, ...
const DefaultPrefix = "track"

// TrackName returns the file name shnsplit gives the n-th (1-based) segment.
func TrackName(prefix string, n int, format string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s%02d.%s", prefix, n, strings.ToLower(format))
}
