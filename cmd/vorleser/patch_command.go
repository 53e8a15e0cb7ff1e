package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vorleser/internal/patch"
	"vorleser/internal/records"
)

func newPatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "patch",
		Short: "Flag results whose transcription carries a spoken introduction",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store := records.NewStore(cfg.Paths.CheckDir)
			summary, err := patch.Run(store, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d records, flagged %d.\n", summary.Scanned, summary.Modified)
			if summary.Modified > 0 {
				fmt.Fprintln(out, "Rerun `vorleser analyze` to regenerate the reports.")
			}
			return nil
		},
	}
}
