package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "Generate illustrations for records without a verified-present image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			stats, err := p.SyncImages(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"%d records visited: %d images generated, %d already present, %d failed\n",
				stats.RecordsVisited, stats.Generated, stats.Skipped, stats.Failed)
			return nil
		},
	}
}
