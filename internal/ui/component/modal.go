package component

import (
	"github.com/rivo/tview"
	"github.com/robgonnella/portx/internal/ui/style"
)

// ModalButton represents a button added to a modal
type ModalButton struct {
	Label   string
	OnClick func()
}

// Modal generic structure for displaying modals
type Modal struct {
	root *tview.Modal
}

// NewModal returns a new instance of Modal
func NewModal(message string, buttons []ModalButton) *Modal {
	modal := tview.NewModal()

	buttonLabels := []string{}

	for _, b := range buttons {
		buttonLabels = append(buttonLabels, b.Label)
	}

	modal.AddButtons(buttonLabels)

	modal.SetText(message)

	modal.SetDoneFunc(func(buttonIdx int, buttonLabel string) {
		for _, b := range buttons {
			if buttonLabel == b.Label {
				b.OnClick()
			}
		}
	})

	modal.SetBackgroundColor(style.ColorDefault).
		SetTextColor(style.ColorError).
		SetButtonBackgroundColor(style.ColorLightGreen).
		SetButtonTextColor(style.ColorBlack).
		SetBorderColor(style.ColorError)

	return &Modal{
		root: modal,
	}
}

// NewErrorModal returns a modal displaying err with a single dismiss button
func NewErrorModal(err error, onDismiss func()) *Modal {
	return NewModal(err.Error(), []ModalButton{
		{Label: "OK", OnClick: onDismiss},
	})
}

// Primitive returns the root primitive for Modal
func (m *Modal) Primitive() tview.Primitive {
	return m.root
}

