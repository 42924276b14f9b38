package components

import (
	"fmt"
	"strings"

	"github.com/GopalOmotec/echolearn-updated/internal/ui/theme"
)

// Bar is a horizontal gauge of Value out of Max.
type Bar struct {
	Value float64
	Max   float64
	Width int

	// ShowValue appends "value/max" after the bar.
	ShowValue bool
}

// NewBar creates a bar of the given width.
func NewBar(value, max float64, width int) Bar {
	return Bar{Value: value, Max: max, Width: width}
}

// Filled returns the number of filled cells.
func (b Bar) Filled() int {
	width := b.width()
	if b.Max <= 0 {
		return 0
	}
	filled := int(float64(width)*b.Value/b.Max + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return filled
}

func (b Bar) width() int {
	if b.Width < 4 {
		return 4
	}
	return b.Width
}

// View renders the bar.
func (b Bar) View() string {
	filled := b.Filled()
	out := theme.BarFilled.Render(strings.Repeat(" ", filled)) +
		theme.BarEmpty.Render(strings.Repeat(" ", b.width()-filled))
	if b.ShowValue {
		out += theme.Hint.Render(fmt.Sprintf("  %g/%g", b.Value, b.Max))
	}
	return out
}
