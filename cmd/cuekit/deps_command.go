package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cuekit/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external programs and directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := preflight.CheckSystemDeps(cfg)
			checks := preflight.RunAll(cfg)
			if jsonOutput {
				if err := writeJSON(cmd, map[string]any{"tools": statuses, "checks": checks}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Tools", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range dependencyLines(statuses, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Checks", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, line := range preflightLines(checks, colorize) {
					fmt.Fprintln(out, line)
				}
			}
			if missing := preflight.MissingRequired(statuses); len(missing) > 0 {
				return errors.New("required tools are missing")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
