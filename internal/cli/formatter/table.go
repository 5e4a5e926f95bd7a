package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align controls how a column's cells are padded.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

const colGap = 2

// RenderTable renders a simple aligned table with a header separator line.
// Every column is left-aligned.
func RenderTable(headers []string, rows [][]string) string {
	return RenderAlignedTable(headers, rows, nil)
}

// RenderAlignedTable renders a table like RenderTable, aligning column i by
// align[i]. Columns beyond len(align) are left-aligned. Widths are measured
// with lipgloss so styled cells line up.
func RenderAlignedTable(headers []string, rows [][]string, align []Align) string {
	if len(headers) == 0 {
		return ""
	}

	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	alignOf := func(i int) Align {
		if i < len(align) {
			return align[i]
		}
		return AlignLeft
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := max(0, widths[i]-lipgloss.Width(cell))
			if style != nil {
				cell = style(cell)
			}
			last := i == cols-1
			if alignOf(i) == AlignRight {
				b.WriteString(strings.Repeat(" ", pad))
				b.WriteString(cell)
				if !last {
					b.WriteString(strings.Repeat(" ", colGap))
				}
				continue
			}
			b.WriteString(cell)
			if !last {
				b.WriteString(strings.Repeat(" ", pad+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })

	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		writeRow(row, nil)
	}

	return b.String()
}
