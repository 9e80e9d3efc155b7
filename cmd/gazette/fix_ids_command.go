package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFixIDsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-ids",
		Short: "Detect and resolve duplicate record identifiers across the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			result, err := p.ResolveIDs(cmd.Context())
			if err != nil {
				return err
			}
			if result.CollisionsFound == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no duplicate ids found")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"%d duplicate ids resolved: %d ids reassigned, %d images moved (%d move failures), %d files rewritten\n",
				result.CollisionsFound,
				result.IDsReassigned,
				result.ImagesMoved,
				result.ImageMoveErrors,
				result.FilesRewritten)
			return nil
		},
	}
}
