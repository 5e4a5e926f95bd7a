package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShareBar renders a group's share of a predicted total as a bar
// like [████░░░░] 45%. A nil share renders as an empty dimmed bar.
func RenderShareBar(pct *float64, width int) string {
	if width < 2 {
		width = 2
	}
	if pct == nil {
		return fmt.Sprintf("[%s]  n/a", StyleDim.Render(strings.Repeat(emptyBlock, width)))
	}

	frac := *pct / 100
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(frac*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	return fmt.Sprintf("[%s] %3.0f%%", StyleBlue.Render(bar), frac*100)
}
