package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Fill supplementary metadata for confirmed series",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			result, err := runner.Enrich(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enriched %d of %d confirmed series\n",
				result.Updated, result.Confirmed)
			return nil
		},
	}
}
