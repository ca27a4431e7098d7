package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hondana/internal/metadata"
	"hondana/internal/state"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var showPending bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show accumulated state totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := state.Load(cfg.Paths.DataDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, categoryTable(st))

			if showPending {
				printOutcomes(cmd, "Review", st.Review)
				printOutcomes(cmd, "Todo", st.Todo)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPending, "pending", false, "List review and todo entries with reasons")
	return cmd
}

func printOutcomes(cmd *cobra.Command, label string, mapping map[string]metadata.SeriesOutcome) {
	out := cmd.OutOrStdout()
	if len(mapping) == 0 {
		fmt.Fprintf(out, "%s: none\n", label)
		return
	}
	fmt.Fprintf(out, "%s:\n", label)
	fmt.Fprintln(out, outcomeTable(mapping))
}
