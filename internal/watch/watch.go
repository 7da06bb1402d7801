package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"cuekit/internal/config"
	"cuekit/internal/converter"
	"cuekit/internal/history"
	"cuekit/internal/logging"
	"cuekit/internal/pairing"
)

// ErrAlreadyRunning reports a second watcher on the same state directory.
var ErrAlreadyRunning = errors.New("another cuekit watcher is already running")

// Converter runs one conversion.
type Converter interface {
	DefaultRequest(source string) converter.Request
	Convert(ctx context.Context, req converter.Request) (*converter.Result, error)
}

// History tells the watcher which cuesheets were already converted. It may
// be nil.
type History interface {
	LatestForCue(ctx context.Context, cuePath string) (*history.Run, error)
}

type scheduled struct {
	timer *time.Timer
	id    uint64
}

// Watcher converts cuesheet images dropped into a directory.
type Watcher struct {
	dir      string
	settle   time.Duration
	lockPath string
	conv     Converter
	history  History
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]scheduled
	seq     uint64
	// convertMu serializes conversions; shnsplit is CPU bound.
	convertMu sync.Mutex
	inflight  sync.WaitGroup
}

// New constructs a watcher for cfg.Paths.WatchDir.
func New(cfg *config.Config, conv Converter, hist History, logger *slog.Logger) *Watcher {
	return &Watcher{
		dir:      cfg.Paths.WatchDir,
		settle:   time.Duration(cfg.Watch.SettleSeconds) * time.Second,
		lockPath: cfg.WatchLockPath(),
		conv:     conv,
		history:  hist,
		logger:   logging.NewComponentLogger(logger, "watch"),
		pending:  make(map[string]scheduled),
	}
}

// SetDir overrides the watched directory.
func (w *Watcher) SetDir(dir string) { w.dir = dir }

// SetSettle overrides the quiet period before a conversion starts.
func (w *Watcher) SetSettle(d time.Duration) { w.settle = d }

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Run watches until ctx is cancelled. Cuesheets already present are
// scheduled at start. Conversions in progress finish before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	if w.dir == "" {
		return errors.New("watch directory is not configured (set paths.watch_dir or pass a directory)")
	}
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch directory %q is not a directory", w.dir)
	}

	if err := os.MkdirAll(filepath.Dir(w.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(w.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watch lock", logging.Error(err))
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for cuesheets",
		logging.String("dir", w.dir),
		logging.Duration("settle", w.settle),
		logging.String("lock", w.lockPath),
	)

	w.scanExisting(ctx)
	defer w.drain()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !pairing.IsCue(event.Name) && !pairing.IsMedia(event.Name) {
		return
	}
	w.logger.Debug("watch event", logging.String("op", event.Op.String()), logging.String("file", event.Name))
	cue, err := pairing.CueFor(event.Name)
	if err != nil || cue == "" {
		return
	}
	w.Trigger(ctx, cue)
}

func (w *Watcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("initial scan failed", logging.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !pairing.IsCue(entry.Name()) {
			continue
		}
		w.Trigger(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// Trigger schedules a conversion of cue once no further events arrive for
// it within the settle period. Paths that reach the same file through a
// symlinked directory share one schedule.
func (w *Watcher) Trigger(ctx context.Context, cue string) {
	key := pairing.CanonicalPath(cue)
	w.mu.Lock()
	defer w.mu.Unlock()
	if prev, ok := w.pending[key]; ok {
		if prev.timer.Stop() {
			w.inflight.Done()
		}
	}
	w.seq++
	id := w.seq
	w.inflight.Add(1)
	timer := time.AfterFunc(w.settle, func() {
		defer w.inflight.Done()
		w.mu.Lock()
		if current, ok := w.pending[key]; ok && current.id == id {
			delete(w.pending, key)
		}
		w.mu.Unlock()
		w.process(ctx, cue)
	})
	w.pending[key] = scheduled{timer: timer, id: id}
	w.logger.Debug("conversion scheduled", logging.String("cue", cue), logging.Duration("in", w.settle))
}

// drain cancels timers that have not fired and waits for running
// conversions.
func (w *Watcher) drain() {
	w.mu.Lock()
	for cue, entry := range w.pending {
		if entry.timer.Stop() {
			w.inflight.Done()
		}
		delete(w.pending, cue)
	}
	w.mu.Unlock()
	w.inflight.Wait()
}

func (w *Watcher) process(ctx context.Context, cue string) {
	if ctx.Err() != nil {
		return
	}
	w.convertMu.Lock()
	defer w.convertMu.Unlock()

	pair, err := pairing.Resolve(cue)
	if err != nil {
		w.logger.Debug("cuesheet vanished", logging.String("cue", cue), logging.Error(err))
		return
	}
	if !pair.Complete() {
		w.logger.Info("waiting for media file", logging.String("cue", pair.Cue))
		return
	}
	if w.history != nil {
		run, err := w.history.LatestForCue(ctx, pair.Cue)
		if err != nil {
			w.logger.Warn("history lookup failed", logging.String("cue", pair.Cue), logging.Error(err))
		} else if run != nil && run.Status == history.StatusCompleted {
			w.logger.Debug("already converted", logging.String("cue", pair.Cue), logging.String("run_id", run.ID))
			return
		}
	}

	result, err := w.conv.Convert(ctx, w.conv.DefaultRequest(cue))
	if err != nil {
		// The converter logs the failure with its run context.
		return
	}
	w.logger.Info("album converted",
		logging.String("cue", pair.Cue),
		logging.Int("tracks", len(result.Tracks)),
		logging.String("output_dir", result.OutputDir),
	)
}
