package style_test

import (
	"testing"

	"github.com/robgonnella/portx/internal/scanner"
	"github.com/robgonnella/portx/internal/ui/style"
	"github.com/stretchr/testify/assert"
)

func TestStyle(t *testing.T) {
	t.Run("maps statuses to colors", func(st *testing.T) {
		assert.Equal(st, style.ColorOpen, style.StatusColor(scanner.StatusOpen))
		assert.Equal(st, style.ColorClosed, style.StatusColor(scanner.StatusClosed))
		assert.Equal(st, style.ColorTimeout, style.StatusColor(scanner.StatusTimeout))
		assert.Equal(st, style.ColorError, style.StatusColor(scanner.StatusError))
		assert.Equal(st, style.ColorError, style.StatusColor(scanner.Status("weird")))
	})

	t.Run("toggles theme", func(st *testing.T) {
		assert.Equal(st, style.ThemeLight, style.ThemeDark.Toggle())
		assert.Equal(st, style.ThemeDark, style.ThemeLight.Toggle())
	})
}
