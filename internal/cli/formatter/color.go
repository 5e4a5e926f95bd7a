package formatter

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Residual percentages at or below these magnitudes render green and yellow;
// anything larger renders red.
const (
	residualGoodPct = 1.0
	residualWarnPct = 5.0
)

// ResidualColor returns the style for a residual percentage. A nil
// percentage (zero reconciled total) is dimmed.
func ResidualColor(pct *float64) lipgloss.Style {
	if pct == nil {
		return StyleDim
	}
	switch abs := math.Abs(*pct); {
	case abs <= residualGoodPct:
		return StyleGreen
	case abs <= residualWarnPct:
		return StyleYellow
	default:
		return StyleRed
	}
}

// ClassBadge renders an equipment class label.
func ClassBadge(class domain.EquipmentClass) string {
	switch class {
	case domain.ClassLoader:
		return StyleBlue.Render("loader")
	case domain.ClassTruck:
		return StylePurple.Render("truck")
	default:
		return StyleDim.Render(string(class))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
