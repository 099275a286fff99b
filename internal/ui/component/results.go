package component

import (
	"strconv"

	"github.com/rivo/tview"
	"github.com/robgonnella/portx/internal/ports"
	"github.com/robgonnella/portx/internal/report"
	"github.com/robgonnella/portx/internal/scanner"
	"github.com/robgonnella/portx/internal/ui/style"
)

type ResultsTable struct {
	table *tview.Table
	theme style.Theme
}

func NewResultsTable() *ResultsTable {
	columnHeaders := []string{"PORT", "STATUS", "TIME", "DESCRIPTION"}

	return &ResultsTable{
		table: createTable("results", columnHeaders),
		theme: style.ThemeDark,
	}
}

func (t *ResultsTable) Primitive() tview.Primitive {
	return t.table
}

// UpdateTable replaces the displayed rows with the results of r
func (t *ResultsTable) UpdateTable(r *report.Report) {
	clearRows(t.table)

	if r == nil {
		return
	}

	for rowIdx, o := range r.Results {
		port := strconv.Itoa(o.Port)
		description := ports.Describe(o.Port)

		if o.IsFault() {
			port = "-"
			description = "probe fault"
		}

		row := []string{
			port,
			string(o.Status),
			report.FormatElapsed(o.Elapsed),
			description,
		}

		for col, text := range row {
			color := t.theme.Text

			if col == 1 {
				color = style.StatusColor(o.Status)
			}

			t.table.SetCell(rowIdx+headerRows, col, newDataCell(text, color))
		}
	}

	t.table.ScrollToBeginning()
}

// RowCount returns the number of displayed results
func (t *ResultsTable) RowCount() int {
	return t.table.GetRowCount() - headerRows
}

// Status returns the status text displayed for row
func (t *ResultsTable) Status(row int) scanner.Status {
	cell := t.table.GetCell(row+headerRows, 1)
	return scanner.Status(cell.Text)
}

func (t *ResultsTable) ApplyTheme(theme style.Theme) {
	t.theme = theme
	applyTableTheme(t.table, theme)

	for r := headerRows; r < t.table.GetRowCount(); r++ {
		for c := 0; c < t.table.GetColumnCount(); c++ {
			if c == 1 {
				continue
			}

			t.table.GetCell(r, c).SetTextColor(theme.Text)
		}
	}
}
