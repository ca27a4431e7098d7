package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the catalog data file for the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			result, err := runner.Export(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n",
				result.Records, result.Path)
			return nil
		},
	}
}
