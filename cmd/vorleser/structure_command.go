package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vorleser/internal/structure"
)

func newStructureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "structure",
		Short: "Generate the canonical book catalog from the audio tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			books, err := structure.Scan(cfg.Paths.WavDir, logger)
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No chapter directories found in the audio tree.")
				return nil
			}

			path, err := structure.WriteCatalog(cfg.Paths.CheckDir, books)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(books))
			for _, book := range books {
				chunks := 0
				for _, chapter := range book.Chapters {
					chunks += chapter.Chunks
				}
				rows = append(rows, []string{
					book.DirectoryName,
					book.BookName,
					strconv.Itoa(len(book.Chapters)),
					strconv.Itoa(chunks),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Directory", "Book", "Chapters", "Chunks"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(out, "Catalog written to %s\n", path)
			return nil
		},
	}
}
