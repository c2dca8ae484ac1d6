// Package render draws a grid surface into the terminal. It is a
// read-only preview of the capability sheet; lipgloss handles color
// and emphasis, runewidth keeps columns aligned for wide glyphs.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/laquereric/excel-mcp-client/internal/grid"
	"github.com/laquereric/excel-mcp-client/internal/sheet"
)

const (
	labelWidth  = 20
	columnWidth = 14
)

var (
	headerCell  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("25"))
	sectionCell = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	okCell      = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	badCell     = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	warnCell    = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
)

// Surface renders the used region of a surface as an aligned table.
func Surface(s grid.Surface) (string, error) {
	lastRow := s.LastRow()
	lastCol := s.LastCol()
	if lastRow == 0 || lastCol == 0 {
		return "(empty sheet)\n", nil
	}

	var b strings.Builder
	for row := 1; row <= lastRow; row++ {
		for col := 1; col <= lastCol; col++ {
			value, err := s.Get(row, col)
			if err != nil {
				return "", err
			}
			width := columnWidth
			if col == 1 {
				width = labelWidth
			}
			b.WriteString(styleFor(s, row, col, value).Render(pad(value, width)))
			if col < lastCol {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// styleFor picks a terminal style from the cell's sheet style, keyed
// on the same attributes the workbook uses.
func styleFor(s grid.Surface, row, col int, value string) lipgloss.Style {
	cellStyle, err := s.GetStyle(row, col)
	if err != nil {
		return lipgloss.NewStyle()
	}

	switch {
	case cellStyle.FillColor == sheet.ColorHeader:
		return headerCell
	case cellStyle.FillColor == sheet.ColorSection:
		return sectionCell
	case cellStyle.FillColor == sheet.ColorConnected:
		return okCell
	case cellStyle.FillColor == sheet.ColorDisconnected:
		return badCell
	case cellStyle.FillColor == sheet.ColorError:
		return warnCell
	case cellStyle.Bold:
		return lipgloss.NewStyle().Bold(true)
	case value == "✓":
		return okCell
	default:
		return lipgloss.NewStyle()
	}
}

// pad right-pads or truncates a value to the given display width.
func pad(value string, width int) string {
	if runewidth.StringWidth(value) > width {
		return runewidth.Truncate(value, width, "…")
	}
	return runewidth.FillRight(value, width)
}
