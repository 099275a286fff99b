package component

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
	"github.com/robgonnella/portx/internal/ui/style"
)

const appText = `
██████╗  ██████╗ ██████╗ ████████╗██╗  ██╗
██╔══██╗██╔═══██╗██╔══██╗╚══██╔══╝╚██╗██╔╝
██████╔╝██║   ██║██████╔╝   ██║    ╚███╔╝
██╔═══╝ ██║   ██║██╔══██╗   ██║    ██╔██╗
██║     ╚██████╔╝██║  ██║   ██║   ██╔╝ ██╗
╚═╝      ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝`

type Header struct {
	root              *tview.Flex
	legendContainer   *tview.Flex
	legendCol1        *tview.Flex
	legendCol2        *tview.Flex
	title             *tview.TextView
	switchViewInput   *SwitchViewInput
	viewsText         *tview.TextView
	targetText        *tview.TextView
	legendTexts       []*tview.TextView
	extraLegendMap    map[string]*tview.TextView
	showingSwitchView bool
}

func NewHeader(views []string, onViewSwitch func(text string)) *Header {
	h := &Header{
		legendTexts:    []*tview.TextView{},
		extraLegendMap: map[string]*tview.TextView{},
	}

	h.root = tview.NewFlex().SetDirection(tview.FlexRow)

	h.legendContainer = tview.NewFlex().SetDirection(tview.FlexColumn)

	h.legendCol1 = tview.NewFlex()

	h.legendCol2 = tview.NewFlex().SetDirection(tview.FlexRow)

	h.setDefaultLegend()

	h.root.AddItem(h.legendContainer, 0, 1, false)

	h.viewsText = tview.NewTextView().
		SetText(fmt.Sprintf("views: %s", joinViews(views))).
		SetTextColor(style.ColorOrange).
		SetTextAlign(tview.AlignLeft)

	h.switchViewInput = NewSwitchViewInput(views, onViewSwitch)

	h.targetText = tview.NewTextView().SetTextAlign(tview.AlignLeft)
	h.targetText.SetTextColor(style.ColorLightGreen)

	h.root.AddItem(h.targetText, 1, 1, false)
	h.root.AddItem(h.switchViewInput.Primitive(), 3, 1, false)

	return h
}

func (h *Header) Primitive() tview.Primitive {
	return h.root
}

// SetTarget displays the host of the current scan
func (h *Header) SetTarget(host string, portCount int) {
	h.targetText.SetText(fmt.Sprintf("Target: %s, Ports: %d", host, portCount))
}

func (h *Header) ShowSwitchViewInput() {
	if !h.showingSwitchView {
		h.legendCol2.AddItem(h.viewsText, 0, 1, false)
		h.showingSwitchView = true
	}
}

func (h *Header) HideSwitchViewInput() {
	if h.showingSwitchView {
		h.legendCol2.RemoveItem(h.viewsText)
		h.showingSwitchView = false
	}
}

func (h *Header) ShowExtraLegend(legend map[string]string) {
	for key, value := range legend {
		v := tview.NewTextView().
			SetText(key + " - " + value).
			SetTextColor(style.ColorOrange).
			SetTextAlign(tview.AlignLeft)

		h.extraLegendMap[key] = v
		h.legendCol2.AddItem(v, 0, 1, false)
	}
}

func (h *Header) RemoveExtraLegend() {
	for _, primitive := range h.extraLegendMap {
		h.legendCol2.RemoveItem(primitive)
	}

	h.extraLegendMap = map[string]*tview.TextView{}
}

func (h *Header) IsShowingSwitchViewInput() bool {
	return h.showingSwitchView
}

func (h *Header) SwitchViewInput() *SwitchViewInput {
	return h.switchViewInput
}

func (h *Header) ApplyTheme(theme style.Theme) {
	h.root.SetBackgroundColor(theme.Background)
	h.title.SetBackgroundColor(theme.Background)
	h.title.SetTextColor(theme.Accent)
	h.targetText.SetBackgroundColor(theme.Background)
	h.viewsText.SetBackgroundColor(theme.Background)
	h.viewsText.SetTextColor(theme.Label)

	for _, t := range h.legendTexts {
		t.SetBackgroundColor(theme.Background)
		t.SetTextColor(theme.Label)
	}

	for _, t := range h.extraLegendMap {
		t.SetBackgroundColor(theme.Background)
		t.SetTextColor(theme.Label)
	}

	h.switchViewInput.ApplyTheme(theme)
}

func (h *Header) setDefaultLegend() {
	h.title = tview.NewTextView().
		SetText(appText).
		SetTextColor(style.ColorPurple)

	h.legendCol1.AddItem(h.title, 0, 1, false)

	emptyText := tview.NewTextView().SetText("")

	for _, text := range []string{
		"type \":\" to change views",
		"ctrl+t - toggle theme",
		"ctrl+c - quit",
	} {
		legend := tview.NewTextView().SetText(text)
		legend.SetTextColor(style.ColorOrange)
		legend.SetTextAlign(tview.AlignLeft)
		h.legendTexts = append(h.legendTexts, legend)
	}

	h.legendTexts = append(h.legendTexts, emptyText)

	h.legendCol2.AddItem(emptyText, 0, 1, false)

	for _, legend := range h.legendTexts[:len(h.legendTexts)-1] {
		h.legendCol2.AddItem(legend, 0, 1, false)
	}

	h.legendContainer.AddItem(h.legendCol1, 45, 1, false)
	h.legendContainer.AddItem(h.legendCol2, 0, 1, false)
}

func joinViews(views []string) string {
	return strings.Join(views, ", ")
}
