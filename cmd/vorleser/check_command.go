package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vorleser/internal/check"
	"vorleser/internal/deps"
	"vorleser/internal/records"
	"vorleser/internal/runlock"
	"vorleser/internal/runlog"
	"vorleser/internal/transcribe"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Transcribe audio chunks and score them against the source text",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			oracle := transcribe.NewService(cfg.Transcriber)
			if err := deps.Require(oracle.Requirement()); err != nil {
				return err
			}

			lock := runlock.New(cfg)
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			runs, err := runlog.Open(cfg)
			if err != nil {
				return err
			}
			defer runs.Close()

			runCtx, stop := signalContext(cmd.Context())
			defer stop()

			runID, err := runs.BeginRun(runCtx, "check")
			if err != nil {
				return err
			}

			store := records.NewStore(cfg.Paths.CheckDir)
			wavPaths, err := check.FindAudioChunks(cfg.Paths.WavDir)
			if err != nil {
				_ = runs.FinishRun(cmd.Context(), runID, runlog.StatusFailed, err.Error())
				return err
			}

			processor := check.NewProcessor(store, oracle, cfg.Paths.ChaptersDir, logger)
			dispatcher := check.NewDispatcher(processor, store, cfg.Transcriber.Workers, logger).
				WithProgress(!noProgress && stderrIsTerminal())

			summary, err := dispatcher.Run(runCtx, wavPaths)
			if err != nil {
				_ = runs.FinishRun(cmd.Context(), runID, runlog.StatusFailed, err.Error())
				return err
			}

			report, err := check.BuildReport(store, logger)
			if err != nil {
				_ = runs.FinishRun(cmd.Context(), runID, runlog.StatusFailed, err.Error())
				return err
			}

			detail := fmt.Sprintf("scored %d, skipped %d, failed %d", summary.Scored, summary.Skipped, summary.Failed)
			if err := runs.FinishRun(cmd.Context(), runID, runlog.StatusCompleted, detail); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Found", "Already done", "Scored", "Skipped", "Failed"},
				[][]string{{
					strconv.Itoa(summary.Found),
					strconv.Itoa(summary.AlreadyDone),
					strconv.Itoa(summary.Scored),
					strconv.Itoa(summary.Skipped),
					strconv.Itoa(summary.Failed),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
			))

			printDeficiencies(cmd, report, cfg.Analysis.DeficientChunkPercent)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

func printDeficiencies(cmd *cobra.Command, report *check.Report, thresholdPercent float64) {
	out := cmd.OutOrStdout()
	if len(report.Chapters) == 0 {
		fmt.Fprintln(out, "No chunk results to summarize yet.")
		return
	}

	problematic := report.Problematic(thresholdPercent)
	if len(problematic) == 0 {
		fmt.Fprintf(out, "No chapter exceeds %.0f%% deficient chunks.\n", thresholdPercent)
		return
	}

	rows := make([][]string, 0, len(problematic))
	byName := make(map[string]check.ChapterDeficiency, len(report.Chapters))
	for _, chapter := range report.Chapters {
		byName[chapter.Chapter] = chapter
	}
	for _, name := range problematic {
		chapter := byName[name]
		rows = append(rows, []string{
			chapter.Chapter,
			strconv.Itoa(chapter.Deficient),
			strconv.Itoa(chapter.Total),
			fmt.Sprintf("%.1f%%", chapter.Percent),
		})
	}
	fmt.Fprintf(out, "Chapters above %.0f%% deficient chunks:\n", thresholdPercent)
	fmt.Fprintln(out, renderTable(
		[]string{"Chapter", "Deficient", "Total", "Percent"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
}
