package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuekit/internal/config"
	"cuekit/internal/cuesheet"
	"cuekit/internal/deps"
	"cuekit/internal/history"
	"cuekit/internal/logging"
	"cuekit/internal/pairing"
	"cuekit/internal/services"
	"cuekit/internal/shntool"
	"cuekit/internal/tagging"
)

// minTail is the shortest audio, in seconds, the image must hold after the
// start of the last track.
const minTail = 2.0

// Splitter measures and splits images.
type Splitter interface {
	Length(ctx context.Context, media string) (shntool.Length, error)
	Split(ctx context.Context, cmd shntool.SplitCommand, points []string) error
}

// Tagger writes metadata into one split track.
type Tagger interface {
	TagFile(ctx context.Context, file, format string, meta *cuesheet.Metadata, step int, rename bool) (string, error)
}

// Recorder persists conversion runs. A nil Recorder disables history.
type Recorder interface {
	Begin(ctx context.Context, run history.Run) (*history.Run, error)
	Finish(ctx context.Context, id string, status history.Status, tracks int, runErr error) error
}

// Request describes one conversion.
type Request struct {
	// Source is a cuesheet or an image; its partner is found by pairing.
	Source    string
	Format    string
	Policy    string
	Prefix    string
	Options   string
	OutputDir string
	Charset   string
	Rename    bool
	Quiet     bool
	// NotCDDA selects millisecond split points for images that are not CD
	// quality.
	NotCDDA bool
}

// Result summarises a finished conversion.
type Result struct {
	RunID     string           `json:"run_id,omitempty"`
	Cue       string           `json:"cue"`
	Media     string           `json:"media"`
	OutputDir string           `json:"output_dir"`
	Points    []string         `json:"points"`
	Removed   []string         `json:"removed_gaps,omitempty"`
	Tracks    []tagging.Result `json:"tracks"`
}

// Converter splits a cuesheet image into tagged tracks.
type Converter struct {
	cfg      *config.Config
	locator  deps.Locator
	splitter Splitter
	tagger   Tagger
	recorder Recorder
	logger   *slog.Logger
}

// New constructs a converter backed by shntool and ffmpeg. store may be nil.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) *Converter {
	locator := deps.NewLocator(cfg.Tools.Dir)
	runner := shntool.NewRunner(locator, logger)
	runner.Shnsplit = cfg.Tools.Shnsplit
	runner.Shnlen = cfg.Tools.Shnlen
	runner.Shnhash = cfg.Tools.Shnhash
	runner.Progress = os.Stderr
	writer := tagging.NewWriter(cfg.Tools.FFmpeg, locator, logger)
	var recorder Recorder
	if store != nil {
		recorder = store
	}
	return NewWithDependencies(cfg, locator, runner, writer, recorder, logger)
}

// NewWithDependencies allows injecting collaborators (used in tests).
func NewWithDependencies(cfg *config.Config, locator deps.Locator, splitter Splitter, tagger Tagger, recorder Recorder, logger *slog.Logger) *Converter {
	return &Converter{
		cfg:      cfg,
		locator:  locator,
		splitter: splitter,
		tagger:   tagger,
		recorder: recorder,
		logger:   logging.NewComponentLogger(logger, "converter"),
	}
}

// DefaultRequest fills a request for source from configuration.
func (c *Converter) DefaultRequest(source string) Request {
	return Request{
		Source:    source,
		Format:    c.cfg.Split.Format,
		Policy:    c.cfg.Split.Policy,
		Prefix:    c.cfg.Split.Prefix,
		Options:   c.cfg.EncoderOptions(c.cfg.Split.Format),
		OutputDir: c.cfg.Paths.OutputDir,
		Charset:   c.cfg.Cuesheet.Charset,
		Rename:    c.cfg.Split.Rename,
		Quiet:     c.cfg.Split.Quiet,
		NotCDDA:   c.cfg.Split.NotCDDA,
	}
}

// job carries the state of one conversion between steps.
type job struct {
	req    Request
	policy cuesheet.Policy
	pair   pairing.Pair
	outDir string
	meta   *cuesheet.Metadata
	table  cuesheet.IndexTable
	result *Result
}

// Convert runs the whole conversion and records it in history.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	j := &job{req: req, result: &Result{}}
	if err := c.prepare(ctx, j); err != nil {
		c.logFailure(ctx, j, err)
		return nil, err
	}

	runID := c.begin(ctx, j)
	if runID != "" {
		ctx = services.WithRunID(ctx, runID)
		j.result.RunID = runID
	}
	ctx = services.WithSource(ctx, j.pair.Cue)

	err := c.execute(ctx, j)
	c.finish(ctx, runID, j, err)
	if err != nil {
		c.logFailure(ctx, j, err)
		return nil, err
	}
	logging.WithContext(ctx, c.logger).Info("conversion completed",
		logging.String("output_dir", j.outDir),
		logging.Int("tracks", len(j.result.Tracks)),
		logging.String(logging.FieldEventType, "conversion_completed"),
	)
	return j.result, nil
}

// prepare covers every check that needs no external program.
func (c *Converter) prepare(ctx context.Context, j *job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	req := &j.req
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if _, err := deps.EncoderFor(req.Format); err != nil {
		return services.Wrap(services.ErrConfiguration, "prepare", "format", "", err)
	}
	policy, err := cuesheet.ParsePolicy(req.Policy)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "prepare", "policy", "", err)
	}
	j.policy = policy
	if req.Prefix == "" {
		req.Prefix = shntool.DefaultPrefix
	}

	pair, err := pairing.Resolve(req.Source)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "prepare", "pair", "", err)
	}
	j.pair = pair
	j.result.Cue, j.result.Media = pair.Cue, pair.Media
	if pair.Cue == "" {
		return services.Wrap(services.ErrNotFound, "prepare", "pair", "there is no cuesheet", nil)
	}
	if pair.Media == "" {
		return services.Wrap(services.ErrNotFound, "prepare", "pair", "there is no media file", nil)
	}

	lines, err := cuesheet.ReadLines(pair.Cue, req.Charset)
	if err != nil {
		return services.Wrap(services.ErrValidation, "prepare", "read cuesheet", "", err)
	}
	if j.meta, err = cuesheet.ExtractMetadata(lines); err != nil {
		return services.Wrap(services.ErrValidation, "prepare", "metadata", "", err)
	}
	if j.table, err = cuesheet.ExtractIndex(lines); err != nil {
		return services.Wrap(services.ErrValidation, "prepare", "index", "", err)
	}
	if j.meta.TrackCount() != j.table.TrackCount() {
		return services.Wrap(services.ErrValidation, "prepare", "index",
			fmt.Sprintf("%d tracks described but %d indexed", j.meta.TrackCount(), j.table.TrackCount()), nil)
	}

	outDir, err := resolveOutputDir(req.OutputDir)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "prepare", "output dir", "", err)
	}
	j.outDir = outDir
	j.result.OutputDir = outDir
	return nil
}

func (c *Converter) execute(ctx context.Context, j *job) error {
	ctx = services.WithStage(ctx, "check")
	if err := c.checkTools(j); err != nil {
		return err
	}
	ctx = services.WithStage(ctx, "validate")
	if err := c.validateImage(ctx, j); err != nil {
		return err
	}

	encoding := cuesheet.EncodingFrames
	if j.req.NotCDDA {
		encoding = cuesheet.EncodingMilliseconds
	}
	points, err := cuesheet.SiftPoints(j.table, j.policy, encoding)
	if err != nil {
		return services.Wrap(services.ErrValidation, "validate", "split points", "", err)
	}
	j.result.Points = points

	ctx = services.WithStage(ctx, "split")
	if err := os.MkdirAll(j.outDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "split", "output dir", "", err)
	}
	if err := c.cleanStale(ctx, j); err != nil {
		return err
	}
	cmd := shntool.SplitCommand{
		Binary:    c.cfg.Tools.Shnsplit,
		Prefix:    j.req.Prefix,
		Format:    j.req.Format,
		Options:   j.req.Options,
		Quiet:     j.req.Quiet,
		OutputDir: j.outDir,
		Media:     j.pair.Media,
	}
	logging.WithContext(ctx, c.logger).Info("splitting image",
		logging.String("media", j.pair.Media),
		logging.String("policy", string(j.policy)),
		logging.Int("points", len(points)),
	)
	if err := c.splitter.Split(ctx, cmd, points); err != nil {
		return err
	}
	if j.policy == cuesheet.PolicySplit {
		if err := c.removeGaps(ctx, j); err != nil {
			return err
		}
	}

	ctx = services.WithStage(ctx, "tag")
	return c.tagTracks(ctx, j)
}

func (c *Converter) checkTools(j *job) error {
	reqs := []deps.Requirement{deps.Shntool(c.cfg.Tools.Shnsplit)}
	if decoder, ok := deps.DecoderFor(filepath.Ext(j.pair.Media)); ok {
		reqs = append(reqs, decoder)
	}
	encoder, err := deps.EncoderFor(j.req.Format)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "check", "encoder", "", err)
	}
	reqs = append(reqs, encoder)
	if err := deps.Require(c.locator, reqs...); err != nil {
		return services.Wrap(services.ErrConfiguration, "check", "tools", "install the missing program or set tools.dir", err)
	}
	return nil
}

// validateImage compares the image with the cuesheet: the last track must
// have audio, and the image quality must match the split point notation.
func (c *Converter) validateImage(ctx context.Context, j *job) error {
	length, err := c.splitter.Length(ctx, j.pair.Media)
	if err != nil {
		return err
	}
	last, err := lastAppendPoint(j.table)
	if err != nil {
		return services.Wrap(services.ErrValidation, "validate", "index", "", err)
	}
	if length.Seconds-last < minTail {
		return services.Wrap(services.ErrValidation, "validate", "length", "media file is too short for this cuesheet", nil)
	}
	switch {
	case !j.req.NotCDDA && !length.CDDA:
		return services.Wrap(services.ErrValidation, "validate", "quality", "only CDDA images may be split without the not-cdda option", nil)
	case j.req.NotCDDA && length.CDDA:
		return services.Wrap(services.ErrValidation, "validate", "quality", "CDDA images may not be split with the not-cdda option", nil)
	}
	return nil
}

// lastAppendPoint is the start of the last track in seconds, zero for a
// single-track album.
func lastAppendPoint(table cuesheet.IndexTable) (float64, error) {
	marks, err := cuesheet.SiftMarks(table, cuesheet.PolicyAppend)
	if err != nil || len(marks) == 0 {
		return 0, err
	}
	return marks[len(marks)-1].Mark.Seconds()
}

func (c *Converter) trackGlob(j *job) string {
	return filepath.Join(j.outDir, j.req.Prefix+"*."+j.req.Format)
}

// splitFiles lists the tracks in the output directory, never the image.
func (c *Converter) splitFiles(j *job) ([]string, error) {
	matches, err := filepath.Glob(c.trackGlob(j))
	if err != nil {
		return nil, err
	}
	files := matches[:0]
	for _, file := range matches {
		if file != j.pair.Media {
			files = append(files, file)
		}
	}
	sort.Strings(files)
	return files, nil
}

// cleanStale removes tracks a previous run left behind; they would be
// counted as output of this run.
func (c *Converter) cleanStale(ctx context.Context, j *job) error {
	files, err := c.splitFiles(j)
	if err != nil {
		return services.Wrap(services.ErrValidation, "split", "clean", "", err)
	}
	logger := logging.WithContext(ctx, c.logger)
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return services.Wrap(services.ErrConfiguration, "split", "clean", "output directory is not writable", err)
		}
		logger.Debug("removed stale track", logging.String("file", file))
	}
	return nil
}

func (c *Converter) removeGaps(ctx context.Context, j *job) error {
	gaps, err := cuesheet.GapSegments(j.table)
	if err != nil {
		return services.Wrap(services.ErrValidation, "split", "gaps", "", err)
	}
	logger := logging.WithContext(ctx, c.logger)
	for _, n := range gaps {
		path := filepath.Join(j.outDir, shntool.TrackName(j.req.Prefix, n, j.req.Format))
		if err := os.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return services.Wrap(services.ErrExternalTool, "split", "gaps", "cannot remove "+filepath.Base(path), err)
		}
		j.result.Removed = append(j.result.Removed, path)
		logger.Debug("removed pre-gap segment", logging.String("file", path))
	}
	return nil
}

func (c *Converter) tagTracks(ctx context.Context, j *job) error {
	files, err := c.splitFiles(j)
	if err != nil {
		return services.Wrap(services.ErrValidation, "tag", "list tracks", "", err)
	}
	if len(files) != j.meta.TrackCount() {
		return services.Wrap(services.ErrExternalTool, "tag", "list tracks", "",
			fmt.Errorf("%w: %d tracks in cuesheet and %d files split", tagging.ErrAmountMismatch, j.meta.TrackCount(), len(files)))
	}
	for step, file := range files {
		final, err := c.tagger.TagFile(ctx, file, j.req.Format, j.meta, step, j.req.Rename)
		if err != nil {
			return err
		}
		j.result.Tracks = append(j.result.Tracks, tagging.Result{Source: file, Final: final, Step: step})
	}
	return nil
}

func (c *Converter) begin(ctx context.Context, j *job) string {
	if c.recorder == nil {
		return ""
	}
	run, err := c.recorder.Begin(ctx, history.Run{
		CuePath:   j.pair.Cue,
		MediaPath: j.pair.Media,
		OutputDir: j.outDir,
		Format:    j.req.Format,
		Policy:    string(j.policy),
	})
	if err != nil {
		logging.WarnWithContext(c.logger, "history unavailable", "history_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check state_dir permissions"),
		)
		return ""
	}
	return run.ID
}

func (c *Converter) finish(ctx context.Context, runID string, j *job, runErr error) {
	if c.recorder == nil || runID == "" {
		return
	}
	status := history.StatusCompleted
	if runErr != nil {
		status = services.FailureStatus(runErr)
	}
	// The run outcome is recorded even when ctx was cancelled mid-run.
	if err := c.recorder.Finish(context.WithoutCancel(ctx), runID, status, len(j.result.Tracks), runErr); err != nil {
		logging.WarnWithContext(c.logger, "history update failed", "history_finish_failed",
			logging.String(logging.FieldRunID, runID),
			logging.Error(err),
		)
	}
}

func (c *Converter) logFailure(ctx context.Context, j *job, err error) {
	logging.ErrorWithContext(logging.WithContext(ctx, c.logger), "conversion failed", "conversion_failed",
		logging.String("source", j.req.Source),
		logging.Error(err),
	)
}

func resolveOutputDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return os.Getwd()
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
