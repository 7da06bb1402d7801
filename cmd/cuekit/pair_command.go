package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuekit/internal/pairing"
)

func newPairCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "pair <path>",
		Short:       "Show the cuesheet and image that belong together",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := pairing.Resolve(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, pair)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cuesheet: %s\n", orNone(pair.Cue))
			fmt.Fprintf(out, "Image:    %s\n", orNone(pair.Media))
			fmt.Fprintf(out, "Complete: %s\n", yesNo(pair.Complete()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}
