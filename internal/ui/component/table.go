package component

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/robgonnella/portx/internal/ui/style"
)

// number of rows above table data: column headers and a spacer row
const headerRows = 2

func createTable(title string, columnHeaders []string) *tview.Table {
	table := tview.NewTable().
		SetBorders(false).
		SetFixed(headerRows, 0).
		SetSelectable(true, false).
		SetSelectedStyle(style.StyleDefault.Background(style.ColorLightGreen).Bold(true))

	table.SetBorder(true)

	table.SetBorderPadding(1, 1, 2, 2)

	for c, h := range columnHeaders {
		cell := tview.NewTableCell(h)
		cell.SetExpansion(1)
		cell.SetAlign(tview.AlignLeft)
		cell.SetTextColor(style.ColorPurple)
		cell.SetSelectable(false)
		cell.SetAttributes(tcell.AttrBold)
		table.SetCell(0, c, cell)
	}

	for c := range columnHeaders {
		cell := tview.NewTableCell("")
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		table.SetCell(1, c, cell)
	}

	table.SetBlurFunc(func() {
		table.SetBorderColor(style.ColorDefault)
	})

	table.SetFocusFunc(func() {
		table.SetBorderColor(style.ColorPurple)
	})

	table.SetTitle(title)
	table.SetTitleColor(style.ColorLightGreen)

	return table
}

func newDataCell(text string, color tcell.Color) *tview.TableCell {
	cell := tview.NewTableCell(text)
	cell.SetExpansion(1)
	cell.SetAlign(tview.AlignLeft)
	cell.SetTextColor(color)
	return cell
}

// clearRows removes every data row leaving the header rows in place
func clearRows(table *tview.Table) {
	for table.GetRowCount() > headerRows {
		table.RemoveRow(headerRows)
	}
}

func applyTableTheme(table *tview.Table, theme style.Theme) {
	table.SetBackgroundColor(theme.Background)

	for c := 0; c < table.GetColumnCount(); c++ {
		if cell := table.GetCell(0, c); cell != nil {
			cell.SetTextColor(theme.Accent)
		}
	}
}
