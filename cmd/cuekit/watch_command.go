package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cuekit/internal/config"
	"cuekit/internal/converter"
	"cuekit/internal/history"
	"cuekit/internal/preflight"
	"cuekit/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Split albums dropped into a directory",
		Long: `Watch a directory and split every cuesheet image that appears in it,
using the configured format, policy and output directory.

An album is converted once its files have been quiet for the settle
period. Albums with a completed history run are skipped. Only one watcher
may run per state directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				dir, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				cfg.Paths.WatchDir = dir
			}
			if strings.TrimSpace(cfg.Paths.WatchDir) == "" {
				return errors.New("no directory to watch (pass one or set paths.watch_dir)")
			}
			if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
				lines := preflightLines(failed, false)
				return fmt.Errorf("preflight failed:\n%s", strings.Join(lines, "\n"))
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			conv := converter.New(cfg, store, logger)
			watcher := watch.New(cfg, conv, store, logger)
			if cmd.Flags().Changed("settle") {
				watcher.SetSettle(settle)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", watcher.Dir())
			return watcher.Run(runCtx)
		},
	}

	cmd.Flags().DurationVar(&settle, "settle", 0, "Quiet period before an album is converted (default: watch.settle_seconds)")
	return cmd
}
