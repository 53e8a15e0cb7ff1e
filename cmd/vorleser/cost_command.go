package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vorleser/internal/costest"
	"vorleser/internal/deps"
)

func newCostCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cost",
		Short: "Estimate the synthesis cost of the audio corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			prober := costest.NewProber(cfg.Cost.FFprobeCommand)
			if err := deps.Require(prober.Requirement()); err != nil {
				return err
			}

			runCtx, stop := signalContext(cmd.Context())
			defer stop()

			estimator := costest.NewEstimator(prober, cfg.Paths.WavDir, cfg.Paths.ChaptersDir, cfg.Cost, logger)
			estimate, err := estimator.Run(runCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if estimate.FilesProcessed == 0 {
				fmt.Fprintln(out, "No valid audio files were found to analyze.")
				return nil
			}

			fmt.Fprintf(out, "Files processed: %d", estimate.FilesProcessed)
			if estimate.FilesSkipped > 0 {
				fmt.Fprintf(out, " (skipped %d)", estimate.FilesSkipped)
			}
			if estimate.MissingSources > 0 {
				fmt.Fprintf(out, " (missing source text for %d)", estimate.MissingSources)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Total duration: %s seconds (%.2f minutes)\n",
				humanize.CommafWithDigits(estimate.TotalSeconds, 2), estimate.TotalSeconds/60)

			fmt.Fprintln(out, renderTable(
				[]string{"Item", "Tokens", "Cost"},
				[][]string{
					{
						"Input text (estimated)",
						humanize.Comma(int64(estimate.InputTextTokens)),
						fmt.Sprintf("$%.4f", estimate.InputTextCost),
					},
					{
						"Output audio",
						humanize.Comma(int64(estimate.OutputAudioTokens)),
						fmt.Sprintf("$%.4f", estimate.OutputAudioCost),
					},
					{
						"Total",
						"",
						fmt.Sprintf("$%.4f", estimate.TotalCost),
					},
				},
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "Input token count is an estimate based on ~%g chars/token.\n",
				cfg.Cost.CharsPerInputToken)
			return nil
		},
	}
}
