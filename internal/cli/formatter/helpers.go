package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// RelativeDate returns a human-friendly relative date string.
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// ShiftDate renders an activity date as YYYY-MM-DD.
func ShiftDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// StatusPill returns a colored status indicator for a shift activity.
func StatusPill(status domain.ShiftStatus) string {
	switch status {
	case domain.ShiftSubmitted:
		return StyleBlue.Render("○ Submitted")
	case domain.ShiftValidated:
		return StyleGreen.Render("● Validated")
	case domain.ShiftRejected:
		return StyleDim.Render("✖ Rejected")
	default:
		return StyleDim.Render(string(status))
	}
}

// LockBadge marks locked totals or factors.
func LockBadge(locked bool) string {
	if locked {
		return StyleYellow.Render("locked")
	}
	return StyleDim.Render("open")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// OptionalFloat renders a config value, or "--" when it is absent.
func OptionalFloat(v *float64) string {
	if v == nil {
		return StyleDim.Render("--")
	}
	return fmt.Sprintf("%g", *v)
}
