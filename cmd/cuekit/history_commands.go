package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cuekit/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past conversions",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	historyCmd.AddCommand(newHistoryResetCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statusFlags []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]history.Status, 0, len(statusFlags))
			for _, value := range statusFlags {
				status, ok := history.ParseStatus(value)
				if !ok {
					return fmt.Errorf("unknown status %q (use %s)", value, joinStatuses())
				}
				statuses = append(statuses, status)
			}
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit, statuses...)
				if err != nil {
					return err
				}
				if jsonOutput {
					if runs == nil {
						runs = []history.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No conversions recorded")
					return nil
				}
				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						filepath.Base(run.CuePath),
						run.Format,
						run.Policy,
						formatStatusLabel(run.Status, colorize),
						strconv.Itoa(run.Tracks),
						run.StartedAt.Local().Format("2006-01-02 15:04"),
						formatRunDuration(run),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Cuesheet", "Format", "Policy", "Status", "Tracks", "Started", "Took"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
				))
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatStats(stats))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Only show runs with these statuses")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one conversion (an ID prefix is enough)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					if errors.Is(err, history.ErrRunNotFound) {
						return fmt.Errorf("no conversion matches %q", args[0])
					}
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, run)
				}
				finished := ""
				if run.Finished() {
					finished = run.FinishedAt.Local().Format(time.DateTime)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderFields([][2]string{
					{"ID", run.ID},
					{"Status", formatStatusLabel(run.Status, false)},
					{"Cuesheet", run.CuePath},
					{"Image", run.MediaPath},
					{"Output", run.OutputDir},
					{"Format", run.Format},
					{"Policy", run.Policy},
					{"Tracks", strconv.Itoa(run.Tracks)},
					{"Started", run.StartedAt.Local().Format(time.DateTime)},
					{"Finished", finished},
					{"Took", formatRunDuration(*run)},
					{"Error", run.ErrorMessage},
				}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove finished conversions from history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context(), all)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Also remove runs still marked running")
	return cmd
}

func newHistoryResetCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "reset-stale",
		Short: "Mark abandoned running conversions as failed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				updated, err := store.ResetStale(cmd.Context(), olderThan)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %d runs as failed\n", updated)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", time.Hour, "Only runs started longer ago than this")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatRunDuration(run history.Run) string {
	if !run.Finished() {
		return "-"
	}
	return run.Duration().Round(100 * time.Millisecond).String()
}

func formatStats(stats map[history.Status]int) string {
	parts := make([]string, 0, len(stats))
	for _, status := range history.Statuses() {
		if n := stats[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", status, n))
		}
	}
	if len(parts) == 0 {
		return "Total: 0"
	}
	return "Total: " + strings.Join(parts, ", ")
}

func joinStatuses() string {
	values := make([]string, 0, len(history.Statuses()))
	for _, status := range history.Statuses() {
		values = append(values, string(status))
	}
	return strings.Join(values, ", ")
}
