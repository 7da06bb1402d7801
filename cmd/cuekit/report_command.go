package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cuekit/internal/report"
	"cuekit/internal/shntool"
	"cuekit/internal/timecode"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var hash bool

	cmd := &cobra.Command{
		Use:   "report <cue|media>",
		Short: "Show album details and track lengths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runner := shntool.NewRunner(ctx.locator(), logger)
			runner.Shnlen = cfg.Tools.Shnlen
			runner.Shnhash = cfg.Tools.Shnhash

			album, err := report.Generate(cmd.Context(), args[0], runner, report.Options{
				Charset: cfg.Cuesheet.Charset,
				Hash:    hash,
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, album)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderAlbum(album, shouldColorize(cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&hash, "hash", false, "Include the MD5 of the decoded audio (slow)")
	return cmd
}

func renderAlbum(album *report.Album, colorize bool) string {
	var b strings.Builder
	for _, line := range renderSectionHeader(album.Performer+" - "+album.Title, colorize) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	quality := ""
	if album.CDDA != nil {
		quality = "not CD quality"
		if *album.CDDA {
			quality = "CD quality"
		}
	}
	length := ""
	if album.Length > 0 {
		length = report.Duration(album.Length)
	}
	b.WriteString(renderFields([][2]string{
		{"Genre", album.Genre},
		{"Date", album.Date},
		{"Disc ID", album.DiscID},
		{"Comment", album.Comment},
		{"Cuesheet", album.Cue},
		{"Image", album.Media},
		{"Length", length},
		{"Quality", quality},
		{"MD5", album.MD5},
	}))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(album.Tracks))
	for _, track := range album.Tracks {
		rows = append(rows, []string{
			track.Number,
			track.Performer,
			track.Title,
			timecode.Display(track.Start),
			report.Duration(track.Length),
		})
	}
	b.WriteString(renderTable(
		[]string{"#", "Performer", "Title", "Start", "Length"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
	))
	b.WriteByte('\n')
	return b.String()
}
