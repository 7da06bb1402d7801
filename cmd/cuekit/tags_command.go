package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"cuekit/internal/config"
	"cuekit/internal/cuesheet"
	"cuekit/internal/deps"
	"cuekit/internal/pairing"
	"cuekit/internal/tagging"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	var format string
	var dir string
	var rename bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "tags <cue>",
		Short: "Tag tracks that were already split",
		Long: `Write the metadata of a cuesheet into the track files of a directory.

Every <format> file in the directory except the image itself is treated as
a track, in name order, and their number must match the cuesheet.`,
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
			if !cmd.Flags().Changed("format") {
				format = cfg.Split.Format
			}
			if _, err := deps.EncoderFor(format); err != nil {
				return err
			}
			if !cmd.Flags().Changed("rename") {
				rename = cfg.Split.Rename
			}
			if dir == "" {
				if dir, err = os.Getwd(); err != nil {
					return err
				}
			} else if dir, err = config.ExpandPath(dir); err != nil {
				return err
			}

			pair, err := pairing.Resolve(args[0])
			if err != nil {
				return err
			}
			if pair.Cue == "" {
				return fmt.Errorf("%w: no cuesheet found for %s", cuesheet.ErrUnsupportedFile, args[0])
			}
			lines, err := cuesheet.ReadLines(pair.Cue, cfg.Cuesheet.Charset)
			if err != nil {
				return err
			}
			meta, err := cuesheet.ExtractMetadata(lines)
			if err != nil {
				return err
			}

			writer := tagging.NewWriter(cfg.Tools.FFmpeg, ctx.locator(), logger)
			results, err := writer.TagTracks(cmd.Context(), dir, meta, tagging.Options{
				Format:  format,
				Exclude: pair.Media,
				Rename:  rename,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{strconv.Itoa(r.Step + 1), filepath.Base(r.Source), filepath.Base(r.Final)})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"#", "Track", "Result"}, rows, []columnAlignment{alignRight}))
			fmt.Fprintf(out, "Tagged %d tracks\n", len(results))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Track format: flac, ogg, opus or mp3")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory holding the tracks (default: current directory)")
	cmd.Flags().BoolVarP(&rename, "rename", "r", false, "Rename tracks to \"NN - artist - title\"")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
