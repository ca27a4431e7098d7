package main

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"hondana/internal/metadata"
	"hondana/internal/state"
)

// categoryTable renders the per-category series counts with a total footer.
func categoryTable(st *state.State) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Category", "Series"})
	tw.AppendRow(table.Row{"confirmed", len(st.Confirmed)})
	tw.AppendRow(table.Row{"review", len(st.Review)})
	tw.AppendRow(table.Row{"todo", len(st.Todo)})
	tw.AppendFooter(table.Row{"total", len(st.Confirmed) + len(st.Review) + len(st.Todo)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

// outcomeTable renders one outcome mapping sorted by series key, showing the
// reason tag and the resolved volume-1 title when one was captured.
func outcomeTable(mapping map[string]metadata.SeriesOutcome) string {
	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Series", "Reason", "Vol 1 title"})
	for _, key := range keys {
		outcome := mapping[key]
		title := ""
		if outcome.Vol1 != nil {
			title = outcome.Vol1.Title
		}
		tw.AppendRow(table.Row{key, outcome.Reason, title})
	}
	return tw.Render()
}
