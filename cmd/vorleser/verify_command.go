package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vorleser/internal/verify"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "verify <chapters.txt> <books.json>",
		Short:       "Cross-check a chapter list against the catalog's directory names",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			diff, err := verify.Compare(args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if diff.Consistent() {
				fmt.Fprintln(out, "All abbreviations and directory names are consistent.")
				return nil
			}

			if len(diff.MissingFromTxt) > 0 {
				fmt.Fprintln(out, "Catalog directory names missing from the chapter list:")
				for _, name := range diff.MissingFromTxt {
					fmt.Fprintf(out, "  - %s\n", name)
				}
			}
			if len(diff.MissingFromJSON) > 0 {
				fmt.Fprintln(out, "Chapter list abbreviations missing from the catalog:")
				for _, name := range diff.MissingFromJSON {
					fmt.Fprintf(out, "  - %s\n", name)
				}
			}
			return fmt.Errorf("found %d inconsistencies",
				len(diff.MissingFromJSON)+len(diff.MissingFromTxt))
		},
	}
}
