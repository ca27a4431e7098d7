package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Resolve pending seeds into the accumulated state",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			result, err := runner.Build(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s\n", result.RunID)
			fmt.Fprintf(out, "Seeds: %d total, %d attempted, %d added\n",
				result.Seeds, result.Attempted, result.Added)
			fmt.Fprintf(out, "State: %d confirmed, %d review, %d todo\n",
				result.Confirmed, result.Review, result.Todo)
			return nil
		},
	}
}
