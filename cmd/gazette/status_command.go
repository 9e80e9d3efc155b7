package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report per-file record counts and missing illustrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			report, err := p.Report(cmd.Context())
			if err != nil {
				return err
			}
			if len(report.Files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no dataset files found")
				return nil
			}

			rows := make([][]string, 0, len(report.Files))
			for _, entry := range report.Files {
				rows = append(rows, []string{
					entry.File,
					strconv.Itoa(entry.Records),
					strconv.Itoa(entry.Missing),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Records", "Missing Images"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			if report.TotalMissing == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "all images present")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d records missing images\n",
					report.TotalMissing, report.TotalRecords)
			}
			return nil
		},
	}
}
