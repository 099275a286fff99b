package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/robgonnella/portx/internal/core"
	"github.com/robgonnella/portx/internal/event"
	"github.com/robgonnella/portx/internal/logger"
	"github.com/robgonnella/portx/internal/report"
	"github.com/robgonnella/portx/internal/scanner"
	"github.com/robgonnella/portx/internal/target"
	"github.com/robgonnella/portx/internal/ui/component"
	"github.com/robgonnella/portx/internal/ui/key"
	"github.com/robgonnella/portx/internal/ui/style"
)

const (
	scanView    = "scan"
	historyView = "history"
	modalPage   = "modal"
)

const resolveTimeout = time.Second * 5

var errNoResults = errors.New("no scan results to save")

type view struct {
	ctx          context.Context
	cancel       context.CancelFunc
	app          *tview.Application
	root         *tview.Flex
	pages        *tview.Pages
	header       *component.Header
	scanForm     *component.ScanForm
	progressBar  *component.ProgressBar
	resultsTable *component.ResultsTable
	historyTable *component.HistoryTable
	appCore      *core.Core
	eventChan    chan event.Event
	listenerIds  []int
	current      *report.Report
	theme        style.Theme
	focused      tview.Primitive
	focusedName  string
	viewNames    []string
	showingModal bool
	logger       logger.Logger
}

func newView(appCore *core.Core) *view {
	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())

	v := &view{
		ctx:         ctx,
		cancel:      cancel,
		appCore:     appCore,
		app:         tview.NewApplication(),
		viewNames:   []string{scanView, historyView},
		listenerIds: []int{},
		theme:       style.ThemeDark,
		logger:      log,
	}

	root := tview.NewFlex().SetDirection(tview.FlexRow)
	pages := tview.NewPages()

	header := component.NewHeader(v.viewNames, v.onActionSubmit)

	scanForm := component.NewScanForm(appCore.Conf(), component.ScanFormHandlers{
		OnScan:     v.onScan,
		OnStop:     v.onStop,
		OnSaveText: func() { v.onSave("txt") },
		OnSaveJSON: func() { v.onSave("json") },
		OnError:    v.showError,
	})

	progressBar := component.NewProgressBar()
	resultsTable := component.NewResultsTable()
	historyTable := component.NewHistoryTable(v.onHistorySelect, v.onHistoryDelete)

	scanPage := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(scanForm.Primitive(), 13, 0, true).
		AddItem(progressBar.Primitive(), 2, 0, false).
		AddItem(resultsTable.Primitive(), 0, 1, false)

	pages.AddPage(scanView, scanPage, true, false)
	pages.AddPage(historyView, historyTable.Primitive(), true, false)

	root.
		AddItem(header.Primitive(), 11, 1, false).
		AddItem(pages, 0, 1, true)

	v.root = root
	v.pages = pages
	v.header = header
	v.scanForm = scanForm
	v.progressBar = progressBar
	v.resultsTable = resultsTable
	v.historyTable = historyTable

	v.eventChan = make(chan event.Event, 100)

	for _, t := range []event.EventType{
		event.ScanStartedEventType,
		event.ScanProgressEventType,
		event.ScanCompleteEventType,
		event.ErrorEventType,
		event.FatalErrorEventType,
	} {
		v.listenerIds = append(v.listenerIds, appCore.RegisterEventListener(t, v.eventChan))
	}

	if req, err := appCore.Conf().Request(); err == nil {
		header.SetTarget(req.Host, len(req.Ports))
	}

	v.focused = scanForm.Primitive()
	v.focusedName = scanView

	v.applyTheme()
	v.focus()

	return v
}

func (v *view) onActionSubmit(text string) {
	text = strings.TrimSpace(text)

	for _, name := range v.viewNames {
		if text != "" && strings.HasPrefix(name, text) {
			v.focusedName = name

			switch name {
			case scanView:
				v.focused = v.scanForm.Primitive()
			case historyView:
				v.refreshHistory()
				v.focused = v.historyTable.Primitive()
			}

			break
		}
	}

	v.header.HideSwitchViewInput()
	v.focus()
}

func (v *view) onScan(req scanner.Request) {
	if v.appCore.IsScanning() {
		v.progressBar.SetStatus("A scan is already running")
		return
	}

	if err := v.appCore.UpdateConfig(v.appCore.Conf().WithRequest(req)); err != nil {
		v.logger.Error().Err(err).Msg("failed to write config file")
	}

	v.header.SetTarget(req.Host, len(req.Ports))
	v.resultsTable.UpdateTable(nil)
	v.progressBar.SetProgress(scanner.NewProgress(len(req.Ports)))
	v.progressBar.SetStatus(fmt.Sprintf("Resolving %s...", req.Host))
	v.scanForm.SetScanning(true)

	go func() {
		ctx, cancel := context.WithTimeout(v.ctx, resolveTimeout)
		addr, err := target.Resolve(ctx, req.Host)
		cancel()

		if err != nil {
			v.logger.Error().Err(err).Str("host", req.Host).Msg("failed to resolve target")

			v.app.QueueUpdateDraw(func() {
				v.scanForm.SetScanning(false)
				v.progressBar.Reset()
				v.showError(fmt.Errorf("failed to resolve %s: %w", req.Host, err))
			})

			return
		}

		v.app.QueueUpdateDraw(func() {
			v.progressBar.SetStatus(fmt.Sprintf("Scanning %s (%s)...", req.Host, addr))
		})

		rep, err := v.appCore.Scan(req)

		v.app.QueueUpdateDraw(func() {
			v.scanForm.SetScanning(false)

			if err != nil {
				v.progressBar.Reset()
				v.showError(err)
				return
			}

			v.showReport(rep)
		})
	}()
}

func (v *view) onStop() {
	if !v.appCore.IsScanning() {
		return
	}

	v.progressBar.SetStatus("Stopping scan...")
	v.appCore.StopScan()
}

func (v *view) onSave(ext string) {
	if v.current == nil {
		v.showError(errNoResults)
		return
	}

	path := filepath.Join(v.appCore.Conf().ReportDir, report.DefaultFilename(v.current, ext))

	save := report.SaveText

	if ext == "json" {
		save = report.SaveJSON
	}

	if err := save(path, v.current); err != nil {
		v.logger.Error().Err(err).Str("path", path).Msg("failed to save report")
		v.showError(err)
		return
	}

	v.progressBar.SetStatus("Results saved to " + path)
}

func (v *view) onHistorySelect(id string) {
	history := v.appCore.History()

	if history == nil {
		return
	}

	rep, err := history.Get(id)

	if err != nil {
		v.showError(err)
		return
	}

	v.showReport(rep)

	v.focusedName = scanView
	v.focused = v.scanForm.Primitive()
	v.focus()
}

func (v *view) onHistoryDelete(id string) {
	history := v.appCore.History()

	if history == nil {
		return
	}

	if err := history.Delete(id); err != nil {
		v.showError(err)
		return
	}

	v.refreshHistory()
}

func (v *view) refreshHistory() {
	history := v.appCore.History()

	if history == nil {
		return
	}

	reports, err := history.List()

	if err != nil {
		v.logger.Error().Err(err).Msg("failed to load scan history")
		v.showError(err)
		return
	}

	v.historyTable.UpdateTable(reports)
}

func (v *view) showReport(rep *report.Report) {
	v.current = rep
	v.header.SetTarget(rep.Host, rep.Requested)
	v.resultsTable.UpdateTable(rep)
	v.progressBar.SetSummary(rep)
}

func (v *view) showError(err error) {
	v.showModal(component.NewErrorModal(err, func() {
		v.pages.RemovePage(modalPage)
		v.showingModal = false
		v.focus()
	}))
}

// showFatalError displays err and exits once it is dismissed
func (v *view) showFatalError(err error) {
	v.showModal(component.NewErrorModal(err, v.stop))
}

func (v *view) showModal(modal *component.Modal) {
	if v.showingModal {
		v.pages.RemovePage(modalPage)
	}

	v.pages.AddPage(modalPage, modal.Primitive(), true, true)
	v.showingModal = true
	v.app.SetFocus(modal.Primitive())
}

func (v *view) toggleTheme() {
	v.theme = v.theme.Toggle()
	v.applyTheme()
}

func (v *view) applyTheme() {
	v.root.SetBackgroundColor(v.theme.Background)
	v.header.ApplyTheme(v.theme)
	v.scanForm.ApplyTheme(v.theme)
	v.progressBar.ApplyTheme(v.theme)
	v.resultsTable.ApplyTheme(v.theme)
	v.historyTable.ApplyTheme(v.theme)
}

func (v *view) bindKeys() {
	v.app.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		switch evt.Key() {
		case key.KeyCtrlC:
			v.stop()
			return evt
		case key.KeyCtrlT:
			v.toggleTheme()
			return nil
		case key.KeyEsc:
			if v.header.IsShowingSwitchViewInput() {
				v.header.HideSwitchViewInput()
				v.focus()
				return nil
			}
		}

		if evt.Rune() == key.RuneColon && !v.showingModal && !v.isEditingForm() {
			return v.showSwitchViewInput()
		}

		return evt
	})
}

// input fields accept ":" (ipv6 hosts) so only buttons and tables open
// the view switcher
func (v *view) isEditingForm() bool {
	_, isInput := v.app.GetFocus().(*tview.InputField)
	return isInput
}

func (v *view) showSwitchViewInput() *tcell.EventKey {
	v.header.ShowSwitchViewInput()
	v.app.SetFocus(v.header.SwitchViewInput().Primitive())

	return nil
}

func (v *view) focus() {
	extraLegend := map[string]string{}

	switch v.focusedName {
	case scanView:
		extraLegend["tab"] = "next field or button"
	case historyView:
		extraLegend["enter"] = "load scan"
		extraLegend["ctrl+d"] = "delete scan"
	}

	v.header.RemoveExtraLegend()
	v.header.ShowExtraLegend(extraLegend)
	v.header.ApplyTheme(v.theme)

	v.pages.SwitchToPage(v.focusedName)
	v.app.SetFocus(v.focused)
}

func (v *view) stop() {
	for _, id := range v.listenerIds {
		v.appCore.RemoveEventListener(id)
	}

	v.cancel()
	v.appCore.Stop()
	v.app.Stop()
}

func (v *view) processBackgroundEventUpdates() {
	go func() {
		for {
			select {
			case <-v.ctx.Done():
				return
			case evt := <-v.eventChan:
				v.app.QueueUpdateDraw(func() {
					v.handleEvent(evt)
				})
			}
		}
	}()
}

func (v *view) handleEvent(evt event.Event) {
	if evt.Type == event.FatalErrorEventType {
		if err, ok := evt.Payload.(error); ok {
			v.logger.Error().Err(err).Msg("fatal error")
			v.showFatalError(err)
		}

		return
	}

	switch payload := evt.Payload.(type) {
	case event.StartedPayload, event.ProgressPayload:
		if progress := v.appCore.Progress(); progress != nil && v.appCore.IsScanning() {
			v.progressBar.SetProgress(progress)
		}
	case *report.Report:
		v.refreshHistory()
	case error:
		v.logger.Error().Err(payload).Msg("background error")
		v.showError(payload)
	}
}

func (v *view) run() error {
	v.bindKeys()
	v.processBackgroundEventUpdates()
	v.appCore.StartDaemon()
	return v.app.SetRoot(v.root, true).EnableMouse(true).Run()
}
