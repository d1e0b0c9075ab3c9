package main

import (
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableView is one titled table of string cells. Columns listed in numeric
// are right-aligned.
type tableView struct {
	title   string
	headers []string
	numeric []int
	rows    [][]string
}

// render draws the table with rounded box drawing on a terminal and plain
// ASCII otherwise so piped output stays greppable.
func (v tableView) render(terminal bool) string {
	if len(v.headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleDefault)
	if terminal {
		tw.SetStyle(table.StyleRounded)
	}
	tw.SetTitle(v.title)
	tw.AppendHeader(toRow(v.headers, len(v.headers)))
	for _, cells := range v.rows {
		tw.AppendRow(toRow(cells, len(v.headers)))
	}
	configs := make([]table.ColumnConfig, 0, len(v.numeric))
	for i := range v.headers {
		if slices.Contains(v.numeric, i) {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight, AlignHeader: text.AlignLeft})
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range min(width, len(cells)) {
		row[i] = cells[i]
	}
	return row
}
