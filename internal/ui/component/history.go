package component

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/robgonnella/portx/internal/report"
	"github.com/robgonnella/portx/internal/ui/key"
	"github.com/robgonnella/portx/internal/ui/style"
)

type HistoryTable struct {
	table *tview.Table
	theme style.Theme
	ids   []string
}

func NewHistoryTable(onSelect func(id string), onDelete func(id string)) *HistoryTable {
	columnHeaders := []string{"DATE", "HOST", "PORTS", "OPEN", "DURATION", "STATE", "ID"}

	h := &HistoryTable{
		table: createTable("history", columnHeaders),
		theme: style.ThemeDark,
		ids:   []string{},
	}

	h.table.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		id, ok := h.selectedID()

		if !ok {
			return evt
		}

		switch evt.Key() {
		case key.KeyCtrlD:
			onDelete(id)
			return nil
		case key.KeyEnter:
			onSelect(id)
			return nil
		}

		return evt
	})

	return h
}

func (h *HistoryTable) Primitive() tview.Primitive {
	return h.table
}

// UpdateTable replaces the displayed rows with reports
func (h *HistoryTable) UpdateTable(reports []*report.Report) {
	clearRows(h.table)

	h.ids = []string{}

	for rowIdx, r := range reports {
		state := "complete"
		stateColor := style.ColorOpen

		if r.Canceled {
			state = "canceled"
			stateColor = style.ColorTimeout
		}

		row := []string{
			r.Date.Local().Format(time.DateTime),
			r.Host,
			fmt.Sprintf("%d", r.Requested),
			fmt.Sprintf("%d", r.Summary.Open),
			r.Duration.Round(time.Millisecond).String(),
			state,
			r.ID,
		}

		for col, text := range row {
			color := h.theme.Text

			if col == 5 {
				color = stateColor
			}

			h.table.SetCell(rowIdx+headerRows, col, newDataCell(text, color))
		}

		h.ids = append(h.ids, r.ID)
	}
}

func (h *HistoryTable) ApplyTheme(theme style.Theme) {
	h.theme = theme
	applyTableTheme(h.table, theme)
}

func (h *HistoryTable) selectedID() (string, bool) {
	row, _ := h.table.GetSelection()
	idx := row - headerRows

	if idx < 0 || idx >= len(h.ids) {
		return "", false
	}

	return h.ids[idx], true
}
