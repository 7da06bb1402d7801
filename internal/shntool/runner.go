package shntool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"cuekit/internal/deps"
	"cuekit/internal/logging"
	"cuekit/internal/services"
	"cuekit/internal/timecode"
)

// Length is the measured duration of an image.
type Length struct {
	Seconds float64
	// CDDA is true for 44.1 kHz, 16 bit, stereo images.
	CDDA bool
	Raw  string
}

// Runner executes the shntool programs.
type Runner struct {
	Locator  deps.Locator
	Shnsplit string
	Shnlen   string
	Shnhash  string
	Logger   *slog.Logger
	// Progress receives shnsplit's own output unless the command is quiet.
	Progress io.Writer
}

// NewRunner constructs a runner with default program names.
func NewRunner(locator deps.Locator, logger *slog.Logger) *Runner {
	return &Runner{
		Locator:  locator,
		Shnsplit: "shnsplit",
		Shnlen:   "shnlen",
		Shnhash:  "shnhash",
		Logger:   logging.NewComponentLogger(logger, "shntool"),
	}
}

// resolve locates the first non-empty program name.
func (r *Runner) resolve(names ...string) (string, error) {
	var name string
	for _, candidate := range names {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			name = candidate
			break
		}
	}
	locator := r.Locator
	if locator == nil {
		locator = deps.PathLocator{}
	}
	path, err := locator.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", deps.ErrMissingTool, name)
	}
	return path, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

// Split runs shnsplit with the points written one per line to stdin.
func (r *Runner) Split(ctx context.Context, cmd SplitCommand, points []string) error {
	binary, err := r.resolve(cmd.Binary, r.Shnsplit, "shnsplit")
	if err != nil {
		return err
	}
	args, err := cmd.Args()
	if err != nil {
		return services.Wrap(services.ErrValidation, "split", "build command", "", err)
	}
	stdin := strings.Join(points, "\n")
	if stdin != "" {
		stdin += "\n"
	}

	r.logger().Debug("running shnsplit",
		logging.String("command", cmd.String()),
		logging.Int("points", len(points)),
	)
	run := exec.CommandContext(ctx, binary, args...)
	run.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	run.Stderr = &stderr
	if !cmd.Quiet && r.Progress != nil {
		run.Stdout = r.Progress
		run.Stderr = io.MultiWriter(r.Progress, &stderr)
	}
	if err := run.Run(); err != nil {
		return services.Wrap(services.ErrExternalTool, "split", "shnsplit", lastLine(stderr.String()), err)
	}
	return nil
}

// Length measures an image with `shnlen -ct`. The fourth column holds "---"
// for CD-quality audio, and the first column is the length in that image's
// notation.
func (r *Runner) Length(ctx context.Context, media string) (Length, error) {
	binary, err := r.resolve(r.Shnlen, "shnlen")
	if err != nil {
		return Length{}, err
	}
	out, err := r.output(ctx, binary, "-ct", media)
	if err != nil {
		return Length{}, services.Wrap(services.ErrExternalTool, "validate", "shnlen", "media file is not valid", err)
	}
	return ParseLength(out)
}

// ParseLength interprets the output of `shnlen -ct`.
func ParseLength(output string) (Length, error) {
	fields := strings.Fields(output)
	if len(fields) < 4 {
		return Length{}, fmt.Errorf("shnlen: unexpected output %q", strings.TrimSpace(output))
	}
	length := Length{Raw: fields[0], CDDA: fields[3] == "---"}
	seconds, err := timecode.ParseLength(fields[0], length.CDDA)
	if err != nil {
		return Length{}, fmt.Errorf("shnlen: %w", err)
	}
	length.Seconds = seconds
	return length, nil
}

// Hash returns the MD5 fingerprint of the decoded audio reported by shnhash.
func (r *Runner) Hash(ctx context.Context, media string) (string, error) {
	binary, err := r.resolve(r.Shnhash, "shnhash")
	if err != nil {
		return "", err
	}
	out, err := r.output(ctx, binary, media)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "report", "shnhash", "", err)
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", errors.New("shnhash: empty output")
	}
	return fields[0], nil
}

func (r *Runner) output(ctx context.Context, binary string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
