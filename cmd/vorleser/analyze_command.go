package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vorleser/internal/analysis"
	"vorleser/internal/corpus"
	"vorleser/internal/records"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Generate per-testament statistical reports from the stored results",
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
			scanned, err := store.Scan(logger)
			if err != nil {
				return err
			}
			if len(scanned) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chunk results found. Run `vorleser check` first.")
				return nil
			}

			partition := corpus.NewPartition(cfg.Books)
			nt, ot, summary := analysis.Partition(scanned, partition)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Records", "New Testament", "Old Testament", "Uncategorized"},
				[][]string{{
					strconv.Itoa(summary.Found),
					strconv.Itoa(summary.NewTestament),
					strconv.Itoa(summary.OldTestament),
					strconv.Itoa(summary.Uncategorized),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))

			analyzer := analysis.New(cfg.Paths.CheckDir, logger)
			for _, run := range []struct {
				dataset   analysis.Dataset
				threshold float64
			}{
				{nt, cfg.Analysis.NTThreshold},
				{ot, cfg.Analysis.OTThreshold},
			} {
				result, err := analyzer.Analyze(run.dataset, run.threshold)
				if err != nil {
					return err
				}
				if result == nil {
					continue
				}
				printAnalysisResult(cmd, result, run.threshold)
			}
			return nil
		},
	}
}

func printAnalysisResult(cmd *cobra.Command, result *analysis.Result, threshold float64) {
	out := cmd.OutOrStdout()
	name := result.Testament.String()

	fmt.Fprintf(out, "\n%s: %d chunks in %d chapters; threshold > %g flags %d chunks and %d chapters.\n",
		name, len(result.Chunks), len(result.Chapters), threshold,
		len(result.FlaggedChunks), len(result.FlaggedChapters))

	fmt.Fprintf(out, "Statistical threshold impact for chunks (%s):\n", name)
	fmt.Fprintln(out, renderImpactTable(result.ChunkImpact))
	fmt.Fprintf(out, "Statistical threshold impact for chapters (%s):\n", name)
	fmt.Fprintln(out, renderImpactTable(result.ChapterImpact))
}

func renderImpactTable(rows []analysis.PercentileRow) string {
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, []string{
			fmt.Sprintf("%dth", row.Percentile),
			fmt.Sprintf("%.3f", row.Threshold),
			strconv.Itoa(row.Flagged),
			strconv.Itoa(row.Total),
		})
	}
	return renderTable(
		[]string{"Percentile", "Threshold", "Flagged", "Total"},
		tableRows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}
