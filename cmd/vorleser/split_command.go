package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vorleser/internal/split"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "split",
		Short: "Split chapter source files into narration blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			splitter := split.New(cfg.Paths.TxtDir, cfg.Paths.ChaptersDir, cfg.Split.MinWordsPerBlock, logger)
			summary, err := splitter.Run()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Split %d chapters into %d blocks under %s\n",
				summary.Chapters, summary.Blocks, cfg.Paths.ChaptersDir)
			return nil
		},
	}
}
