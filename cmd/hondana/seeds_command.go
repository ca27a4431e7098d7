package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hondana/internal/state"
)

func newSeedsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seeds",
		Short: "Show the seed backlog and what the next run would attempt",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			seeds, err := state.LoadSeeds(cfg.Paths.SeedsPath)
			if err != nil {
				return err
			}
			st, err := state.Load(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			pending := st.PendingSeeds(seeds, cfg.Pipeline.MaxNewPerRun)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeds: %d total, %d pending (next run attempts up to %d)\n",
				len(seeds), len(pending), cfg.Pipeline.MaxNewPerRun)
			for _, seed := range pending {
				hint := ""
				if !seed.Vol1Hint.Empty() {
					hint = " (hinted)"
				}
				fmt.Fprintf(out, "  - %s%s\n", seed.SeriesKey, hint)
			}
			return nil
		},
	}
}
