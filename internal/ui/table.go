package ui

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SummaryRow is one labelled value of the release summary.
type SummaryRow struct {
	Label string
	Value string
}

// RenderSummary renders rows as a two-column table.
func RenderSummary(title string, rows []SummaryRow) string {
	if len(rows) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle(title)
	}

	for _, row := range rows {
		tw.AppendRow(table.Row{row.Label, row.Value})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})

	return tw.Render()
}
