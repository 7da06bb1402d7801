package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cuekit/internal/cuesheet"
	"cuekit/internal/pairing"
)

func newPointsCommand(ctx *commandContext) *cobra.Command {
	var policy string
	var milliseconds bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "points <cue|media>",
		Short: "Print the split points of a cuesheet",
		Long: `Print the split points shnsplit needs for a cuesheet, one per line.

The append policy attaches each pre-gap to the end of the previous track,
prepend attaches it to the start of its own track, and split gives every
pre-gap its own segment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("policy") {
				policy = cfg.Split.Policy
			}
			if !cmd.Flags().Changed("ms") {
				milliseconds = cfg.Split.NotCDDA
			}
			parsed, err := cuesheet.ParsePolicy(policy)
			if err != nil {
				return err
			}
			cue, err := resolveCue(args[0])
			if err != nil {
				return err
			}
			lines, err := cuesheet.ReadLines(cue, cfg.Cuesheet.Charset)
			if err != nil {
				return err
			}
			table, err := cuesheet.ExtractIndex(lines)
			if err != nil {
				return err
			}
			enc := cuesheet.EncodingFrames
			if milliseconds {
				enc = cuesheet.EncodingMilliseconds
			}
			points, err := cuesheet.SiftPoints(table, parsed, enc)
			if err != nil {
				return err
			}

			if jsonOutput {
				if points == nil {
					points = []string{}
				}
				return writeJSON(cmd, map[string]any{
					"cue":    cue,
					"policy": parsed,
					"points": points,
				})
			}
			if len(points) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(points, "\n"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&policy, "policy", "p", "", "Pre-gap policy: append, prepend or split")
	cmd.Flags().BoolVar(&milliseconds, "ms", false, "Print millisecond points for images that are not CD quality")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// resolveCue accepts a cuesheet or an image and returns the cuesheet path.
func resolveCue(path string) (string, error) {
	pair, err := pairing.Resolve(path)
	if err != nil {
		return "", err
	}
	if pair.Cue == "" {
		return "", fmt.Errorf("%w: no cuesheet found for %s", cuesheet.ErrUnsupportedFile, path)
	}
	return pair.Cue, nil
}
