package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cuekit/internal/config"
	"cuekit/internal/cuesheet"
	"cuekit/internal/textutil"
)

func newCopyCommand(ctx *commandContext) *cobra.Command {
	var output string
	var lang string
	var opencc string

	cmd := &cobra.Command{
		Use:   "copy <cue>",
		Short: "Write a UTF-8 copy of a cuesheet",
		Long: `Write a UTF-8 copy of a cuesheet, by default next to it as <name>.cue~.

PERFORMER and TITLE values can be transliterated to Latin letters (--lang)
or converted between Chinese scripts with OpenCC (--opencc t2s, s2t, ...).`,
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
			cue, err := resolveCue(args[0])
			if err != nil {
				return err
			}

			var rewrites []func(string) string
			if lang != "" {
				translit, err := textutil.Transliterator(lang)
				if err != nil {
					return err
				}
				rewrites = append(rewrites, translit)
			}
			if opencc != "" {
				converter, err := textutil.NewChineseConverter(opencc, logger)
				if err != nil {
					return err
				}
				rewrites = append(rewrites, converter.Convert)
			}
			if output != "" {
				if output, err = config.ExpandPath(output); err != nil {
					return err
				}
			}

			written, err := cuesheet.Copy(cue, output, cfg.Cuesheet.Charset, rewrites...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default: <name>.cue~ next to the cuesheet)")
	cmd.Flags().StringVar(&lang, "lang", "", "Transliterate PERFORMER and TITLE from this language (ru)")
	cmd.Flags().StringVar(&opencc, "opencc", "", "OpenCC profile for PERFORMER and TITLE (t2s, s2t, ...)")
	return cmd
}
