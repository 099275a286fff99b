package component

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/robgonnella/portx/internal/report"
	"github.com/robgonnella/portx/internal/scanner"
	"github.com/robgonnella/portx/internal/ui/style"
)

const progressBarWidth = 40

type ProgressBar struct {
	root   *tview.Flex
	bar    *tview.TextView
	status *tview.TextView
}

func NewProgressBar() *ProgressBar {
	bar := tview.NewTextView().SetDynamicColors(true)
	bar.SetBorderPadding(0, 0, 2, 2)

	status := tview.NewTextView().SetDynamicColors(true)
	status.SetBorderPadding(0, 0, 2, 2)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(bar, 1, 0, false).
		AddItem(status, 1, 0, false)

	p := &ProgressBar{
		root:   root,
		bar:    bar,
		status: status,
	}

	p.Reset()

	return p
}

func (p *ProgressBar) Primitive() tview.Primitive {
	return p.root
}

// Reset clears progress and shows the ready message
func (p *ProgressBar) Reset() {
	p.bar.SetText(RenderProgress(scanner.NewProgress(0)))
	p.status.SetText("Ready")
}

// SetProgress renders the current state of a scan's progress tracker
func (p *ProgressBar) SetProgress(progress *scanner.Progress) {
	p.bar.SetText(RenderProgress(progress))
}

// SetStatus displays a free form status message
func (p *ProgressBar) SetStatus(message string) {
	p.status.SetText(tview.Escape(message))
}

// SetSummary displays the summary line of a finished scan
func (p *ProgressBar) SetSummary(r *report.Report) {
	progress := scanner.NewProgress(r.Requested)
	progress.Advance(len(r.Results))

	p.SetProgress(progress)
	p.status.SetText(RenderSummary(r))
}

func (p *ProgressBar) ApplyTheme(theme style.Theme) {
	p.root.SetBackgroundColor(theme.Background)
	p.bar.SetBackgroundColor(theme.Background)
	p.bar.SetTextColor(theme.Text)
	p.status.SetBackgroundColor(theme.Background)
	p.status.SetTextColor(theme.Text)
}

// RenderProgress returns the progress line of a progress tracker
func RenderProgress(progress *scanner.Progress) string {
	fraction := progress.Fraction()
	filled := int(fraction * progressBarWidth)

	return fmt.Sprintf(
		"Scanned: %d/%d [%s%s] %3.0f%%",
		progress.Done(),
		progress.Total(),
		strings.Repeat("█", filled),
		strings.Repeat("░", progressBarWidth-filled),
		fraction*100,
	)
}

// RenderSummary returns the colored summary line of a report
func RenderSummary(r *report.Report) string {
	state := "Scan complete"

	if r.Canceled {
		state = fmt.Sprintf("Scan stopped (%d not probed)", len(r.Unprobed))
	}

	return fmt.Sprintf(
		"%s in %s: [%s]%d open[-], [%s]%d closed[-], [%s]%d timeout[-], [%s]%d error[-]",
		state,
		report.FormatElapsed(&r.Duration),
		tagColor(style.ColorOpen), r.Summary.Open,
		tagColor(style.ColorClosed), r.Summary.Closed,
		tagColor(style.ColorTimeout), r.Summary.Timeout,
		tagColor(style.ColorError), r.Summary.Error,
	)
}

// tagColor renders c for use in a tview color tag
func tagColor(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
