package component

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/robgonnella/portx/internal/ui/key"
	"github.com/robgonnella/portx/internal/ui/style"
)

type SwitchViewInput struct {
	root     *tview.InputField
	theme    style.Theme
	onSubmit func(text string)
}

func NewSwitchViewInput(views []string, onSubmit func(text string)) *SwitchViewInput {
	input := tview.NewInputField()
	input.SetFieldStyle(style.StyleDefault.Dim(true))
	input.SetBorderPadding(0, 0, 1, 1)
	input.SetPlaceholderStyle(style.StyleDefault.Dim(true))

	ai := &SwitchViewInput{
		root:     input,
		theme:    style.ThemeDark,
		onSubmit: onSubmit,
	}

	input.SetFocusFunc(func() {
		input.SetBorder(true)
		input.SetBorderColor(ai.theme.Accent)
		input.SetPlaceholder("Enter view: " + joinViews(views))
	})

	input.SetBlurFunc(func() {
		input.SetBorder(false)
		input.SetPlaceholder("")
	})

	ai.root.SetDoneFunc(func(k tcell.Key) {
		if k == key.KeyEnter {
			ai.onSubmit(ai.root.GetText())
			ai.root.SetText("")
		}
	})

	return ai
}

func (i *SwitchViewInput) Primitive() tview.Primitive {
	return i.root
}

func (i *SwitchViewInput) ApplyTheme(theme style.Theme) {
	i.theme = theme
	i.root.SetBackgroundColor(theme.Background)
	i.root.SetFieldTextColor(theme.Text)
}
