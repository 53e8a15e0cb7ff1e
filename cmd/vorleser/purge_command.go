package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"vorleser/internal/corpus"
	"vorleser/internal/purge"
	"vorleser/internal/records"
	"vorleser/internal/runlock"
	"vorleser/internal/runlog"
)

func newPurgeCommand(ctx *commandContext) *cobra.Command {
	var doit bool
	var syncDB bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Identify and optionally delete audio chunks over the removal thresholds",
		Long: "Scans the stored results and writes files_to_remove.json listing every " +
			"chunk whose error rate exceeds its testament's removal threshold. " +
			"Without --doit this is a dry run; with --doit the listed audio files " +
			"are deleted after confirmation. Records are kept so a following check " +
			"run re-records exactly the purged chunks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if syncDB && !doit {
				return fmt.Errorf("--sync-db requires --doit")
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
			entries := purge.Collect(scanned, partition, cfg.Purge, cfg.Paths.WavDir)

			manifestPath, err := purge.WriteManifest(cfg.Paths.CheckDir, entries)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Identified %d chunks exceeding their removal thresholds.\n", len(entries))
			fmt.Fprintf(out, "Removal manifest written to %s\n", manifestPath)

			if !doit {
				fmt.Fprintln(out, "This was a dry run; no files were deleted. Re-run with --doit to delete them.")
				return nil
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No files to delete.")
				return nil
			}

			fmt.Fprintf(out, "WARNING: this permanently deletes %d audio files.\n", len(entries))
			if !confirmDeletion(cmd.InOrStdin(), out) {
				fmt.Fprintln(out, "Deletion aborted.")
				return nil
			}

			lock := runlock.New(cfg)
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			var recorder purge.Recorder
			var runID string
			var runs *runlog.Store
			if syncDB {
				runs, err = runlog.Open(cfg)
				if err != nil {
					return err
				}
				defer runs.Close()
				runID, err = runs.BeginRun(cmd.Context(), "purge")
				if err != nil {
					return err
				}
				recorder = runs.Recorder(cmd.Context(), runID)
			}

			summary := purge.Delete(entries, recorder, logger)
			if runs != nil {
				detail := fmt.Sprintf("deleted %d, missing %d, failed %d",
					summary.Deleted, summary.Missing, summary.Failed)
				if err := runs.FinishRun(cmd.Context(), runID, runlog.StatusCompleted, detail); err != nil {
					return err
				}
			}

			fmt.Fprintf(out, "Deleted %d files (%d already missing, %d failed).\n",
				summary.Deleted, summary.Missing, summary.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&doit, "doit", false, "Actually delete the flagged audio files")
	cmd.Flags().BoolVar(&syncDB, "sync-db", false, "Record deletions in the run log database (requires --doit)")
	return cmd
}

func confirmDeletion(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Type 'yes' to proceed with deletion: ")
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}
