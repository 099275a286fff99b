package style

import (
	"github.com/gdamore/tcell/v2"
	"github.com/robgonnella/portx/internal/scanner"
)

/**
 * Styles and Colors!
 */

const (
	ColorDefault     = tcell.ColorDefault
	ColorBlack       = tcell.ColorBlack
	ColorWhite       = tcell.ColorWhite
	ColorPurple      = tcell.ColorMediumPurple
	ColorGreen       = tcell.ColorSeaGreen
	ColorLightGreen  = tcell.ColorLightSeaGreen
	ColorMediumGreen = tcell.ColorMediumSeaGreen
	ColorOrange      = tcell.ColorOrange
	ColorDimGrey     = tcell.ColorDimGrey
)

// status colors
var (
	ColorOpen    = tcell.NewHexColor(0x4CAF50)
	ColorClosed  = tcell.NewHexColor(0x9E9E9E)
	ColorTimeout = tcell.NewHexColor(0xFF9800)
	ColorError   = tcell.NewHexColor(0xF44336)
)

var (
	StyleDefault = tcell.StyleDefault
)

// Theme represents the colors applied to every component
type Theme struct {
	Name       string
	Background tcell.Color
	Text       tcell.Color
	Field      tcell.Color
	Accent     tcell.Color
	Label      tcell.Color
}

var (
	ThemeDark = Theme{
		Name:       "dark",
		Background: ColorDefault,
		Text:       ColorWhite,
		Field:      tcell.ColorGray,
		Accent:     ColorPurple,
		Label:      ColorOrange,
	}

	ThemeLight = Theme{
		Name:       "light",
		Background: tcell.ColorWhiteSmoke,
		Text:       ColorBlack,
		Field:      tcell.ColorLightGray,
		Accent:     tcell.ColorDarkSlateBlue,
		Label:      tcell.ColorDarkOrange,
	}
)

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	if t.Name == ThemeDark.Name {
		return ThemeLight
	}

	return ThemeDark
}

// StatusColor returns the display color for a probe status
func StatusColor(status scanner.Status) tcell.Color {
	switch status {
	case scanner.StatusOpen:
		return ColorOpen
	case scanner.StatusClosed:
		return ColorClosed
	case scanner.StatusTimeout:
		return ColorTimeout
	default:
		return ColorError
	}
}
