package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Strip citation markers from titles, summaries, and raw text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			cleaned, err := p.CleanCitations(cmd.Context())
			if err != nil {
				return err
			}
			if cleaned == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no citations found")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleaned citations in %d files\n", cleaned)
			return nil
		},
	}
}
