package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAdoptCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "adopt",
		Short: "Point records at derived-path images that already exist on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			stats, err := p.Adopt(cmd.Context())
			if err != nil {
				return err
			}
			if stats.RecordsUpdated == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no records needed adopting")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "adopted images for %d records in %d files\n",
				stats.RecordsUpdated, stats.FilesRewritten)
			return nil
		},
	}
}
