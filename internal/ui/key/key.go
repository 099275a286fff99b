package key

import "github.com/gdamore/tcell/v2"

/**
 * Keys and Runes!
 */

const (
	RuneColon = ':'
)

const (
	KeyCtrlC = tcell.KeyCtrlC
	KeyCtrlD = tcell.KeyCtrlD
	KeyCtrlT = tcell.KeyCtrlT
	KeyEnter = tcell.KeyEnter
	KeyEsc   = tcell.KeyEsc
)
