package display

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// FailureRow is one line of the end-of-run failure table.
type FailureRow struct {
	File  string
	Step  string
	Error string
}

// maxErrorWidth caps the error column; tool stderr can be long.
const maxErrorWidth = 80

// RenderFailures renders rows as a rounded table. Returns "" for no rows.
func RenderFailures(rows []FailureRow) string {
	if len(rows) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Step", "Error"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.File, r.Step, r.Error})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, WidthMax: maxErrorWidth},
	})
	return tw.Render()
}

// PlanRow is one line of the dry-run plan table.
type PlanRow struct {
	File   string
	Dims   string
	Action string
	Output string
}

// RenderPlan renders the dry-run plan as a rounded table. Returns "" for no
// rows.
func RenderPlan(rows []PlanRow) string {
	if len(rows) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Size", "Action", "Output"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.File, r.Dims, r.Action, r.Output})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return tw.Render()
}
