package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"cuekit/internal/converter"
	"cuekit/internal/history"
	"cuekit/internal/logging"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var req converter.Request
	var jsonOutput bool
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "split <cue|media>",
		Short: "Split an image into tagged tracks",
		Long: `Split a CD image into one file per track using its cuesheet, then tag
each track from the cuesheet metadata.

Either the cuesheet or the image may be given; the other half is found next
to it by file name. Tracks are written to the output directory as
<prefix>01.<format>, <prefix>02.<format>, ... unless --rename is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var store *history.Store
			if !noHistory {
				store, err = history.Open(cfg)
				if err != nil {
					logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "conversion continues without a history entry"),
					)
					store = nil
				} else {
					defer store.Close()
				}
			}

			conv := converter.New(cfg, store, logger)
			flags := cmd.Flags()
			final := conv.DefaultRequest(args[0])
			if flags.Changed("format") {
				final.Format = req.Format
				if !flags.Changed("options") {
					final.Options = cfg.EncoderOptions(req.Format)
				}
			}
			if flags.Changed("options") {
				final.Options = req.Options
			}
			if flags.Changed("policy") {
				final.Policy = req.Policy
			}
			if flags.Changed("prefix") {
				final.Prefix = req.Prefix
			}
			if flags.Changed("output") {
				final.OutputDir = req.OutputDir
			}
			if flags.Changed("charset") {
				final.Charset = req.Charset
			}
			if flags.Changed("rename") {
				final.Rename = req.Rename
			}
			if flags.Changed("quiet") {
				final.Quiet = req.Quiet
			}
			if flags.Changed("not-cdda") {
				final.NotCDDA = req.NotCDDA
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			result, err := conv.Convert(runCtx, final)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(result.Tracks))
			for _, track := range result.Tracks {
				rows = append(rows, []string{strconv.Itoa(track.Step + 1), filepath.Base(track.Final)})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "File"}, rows, []columnAlignment{alignRight, alignLeft}))
			fmt.Fprintf(out, "Split %d tracks into %s\n", len(result.Tracks), result.OutputDir)
			if len(result.Removed) > 0 {
				fmt.Fprintf(out, "Removed %d pre-gap segments\n", len(result.Removed))
			}
			if result.RunID != "" {
				fmt.Fprintf(out, "History run: %s\n", result.RunID)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&req.Format, "format", "f", "", "Output format: flac, ogg, opus or mp3")
	flags.StringVarP(&req.Policy, "policy", "p", "", "Pre-gap policy: append, prepend or split")
	flags.StringVar(&req.Prefix, "prefix", "", "File name prefix for split tracks")
	flags.StringVar(&req.Options, "options", "", "Encoder options, replacing the configured ones")
	flags.StringVarP(&req.OutputDir, "output", "o", "", "Directory for the tracks")
	flags.StringVar(&req.Charset, "charset", "", "Cuesheet charset (auto or a label such as windows-1251)")
	flags.BoolVarP(&req.Rename, "rename", "r", false, "Rename tracks to \"NN - artist - title\"")
	flags.BoolVarP(&req.Quiet, "quiet", "q", false, "Suppress shnsplit progress output")
	flags.BoolVarP(&req.NotCDDA, "not-cdda", "n", false, "Split an image that is not CD quality")
	flags.BoolVar(&noHistory, "no-history", false, "Do not record the conversion")
	flags.BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
