package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: fix duplicate ids, clean citations, generate missing images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			summary, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"run complete: %d duplicate ids found, %d ids reassigned, %d files cleaned of citations, %d images generated, %d records failed\n",
				summary.Resolution.CollisionsFound,
				summary.Resolution.IDsReassigned,
				summary.CitationsCleaned,
				summary.Sync.Generated,
				summary.Sync.Failed)
			return nil
		},
	}
}
