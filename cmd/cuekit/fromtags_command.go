package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"cuekit/internal/config"
	"cuekit/internal/cuesheet"
	"cuekit/internal/deps"
	"cuekit/internal/tagcollect"
)

func newFromTagsCommand(ctx *commandContext) *cobra.Command {
	var various bool
	var allowEmpty bool
	var output string
	var format string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "fromtags [files...]",
		Short: "Generate a cuesheet from the tags of split tracks",
		Long: `Generate a cuesheet from the tags of already split tracks.

Files are taken in the given order. Without arguments every <format> file in
the current directory is used, sorted by name. Missing tags are reported and
the cuesheet is refused unless --empty is set, in which case they become
"empty".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			files := args
			if len(files) == 0 {
				if !cmd.Flags().Changed("format") {
					format = cfg.Split.Format
				}
				if files, err = filesOfFormat(".", format); err != nil {
					return err
				}
			}

			mode := tagcollect.ModeSingle
			if various {
				mode = tagcollect.ModeVarious
			}
			collector := &tagcollect.Collector{
				Reader:     tagcollect.FFprobeReader{Binary: cfg.Tools.FFprobe, Locator: ctx.locator()},
				Mode:       mode,
				AllowEmpty: allowEmpty,
				Logger:     logger,
			}
			result, err := collector.Collect(cmd.Context(), files)
			if result != nil {
				for _, w := range result.Warnings {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w.String())
				}
			}
			if err != nil {
				return err
			}

			if output != "" {
				target, err := config.ExpandPath(output)
				if err != nil {
					return err
				}
				if err := cuesheet.WriteLines(target, result.Lines); err != nil {
					return err
				}
				if !jsonOutput {
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
					return nil
				}
			}
			if jsonOutput {
				return writeJSON(cmd, result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(result.Lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&various, "various", false, "Compilation: genre and date are kept per track")
	cmd.Flags().BoolVar(&allowEmpty, "empty", false, "Accept missing tags and write placeholders")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the cuesheet to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Track format used when no files are given")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func filesOfFormat(dir, format string) ([]string, error) {
	if _, err := deps.EncoderFor(format); err != nil {
		return nil, err
	}
	files, err := filepath.Glob(filepath.Join(dir, "*."+strings.ToLower(format)))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		cwd, _ := os.Getwd()
		return nil, errors.New("no " + format + " files in " + cwd)
	}
	sort.Strings(files)
	return files, nil
}
