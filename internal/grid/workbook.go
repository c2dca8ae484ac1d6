package grid

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is a Surface persisted to an .xlsx file through excelize.
// All writes go to one named sheet; Save flushes them to disk.
type Workbook struct {
	file  *excelize.File
	path  string
	sheet string

	// excelize styles are registered once and addressed by ID; cache
	// both directions so GetStyle can answer without re-deriving.
	styleIDs  map[Style]int
	styleByID map[int]Style
}

// OpenWorkbook opens an existing workbook or creates a new one, and
// ensures the named sheet exists.
func OpenWorkbook(path, sheet string) (*Workbook, error) {
	var file *excelize.File
	if _, err := os.Stat(path); err == nil {
		file, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		file = excelize.NewFile()
	} else {
		return nil, fmt.Errorf("failed to stat workbook %s: %w", path, err)
	}

	idx, err := file.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("invalid sheet name %s: %w", sheet, err)
	}
	if idx < 0 {
		if _, err := file.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	return &Workbook{
		file:      file,
		path:      path,
		sheet:     sheet,
		styleIDs:  make(map[Style]int),
		styleByID: make(map[int]Style),
	}, nil
}

// Save flushes the workbook to its path.
func (w *Workbook) Save() error {
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return nil
}

// Close releases the underlying file handle without saving.
func (w *Workbook) Close() error {
	return w.file.Close()
}

func cellName(row, col int) (string, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("invalid cell coordinates (%d, %d): %w", row, col, err)
	}
	return name, nil
}

// Get returns the value at (row, col).
func (w *Workbook) Get(row, col int) (string, error) {
	cell, err := cellName(row, col)
	if err != nil {
		return "", err
	}
	value, err := w.file.GetCellValue(w.sheet, cell)
	if err != nil {
		return "", fmt.Errorf("failed to read cell %s: %w", cell, err)
	}
	return value, nil
}

// Set writes a value at (row, col).
func (w *Workbook) Set(row, col int, value string) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	if err := w.file.SetCellValue(w.sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write cell %s: %w", cell, err)
	}
	return nil
}

// styleID registers a style with excelize on first use.
func (w *Workbook) styleID(style Style) (int, error) {
	if id, ok := w.styleIDs[style]; ok {
		return id, nil
	}

	spec := &excelize.Style{}
	if style.Bold || style.FontSize > 0 || style.FontColor != "" {
		spec.Font = &excelize.Font{
			Bold:  style.Bold,
			Size:  style.FontSize,
			Color: style.FontColor,
		}
	}
	if style.FillColor != "" {
		spec.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{style.FillColor},
		}
	}
	if style.Align != "" {
		spec.Alignment = &excelize.Alignment{Horizontal: style.Align}
	}

	id, err := w.file.NewStyle(spec)
	if err != nil {
		return 0, fmt.Errorf("failed to register style: %w", err)
	}
	w.styleIDs[style] = id
	w.styleByID[id] = style
	return id, nil
}

// GetStyle returns the style at (row, col). Style IDs written in a
// previous session are decoded from the workbook on first sight and
// cached; IDs whose definition cannot be decoded come back as the
// zero style.
func (w *Workbook) GetStyle(row, col int) (Style, error) {
	cell, err := cellName(row, col)
	if err != nil {
		return Style{}, err
	}
	id, err := w.file.GetCellStyle(w.sheet, cell)
	if err != nil {
		return Style{}, fmt.Errorf("failed to read style of %s: %w", cell, err)
	}
	if style, ok := w.styleByID[id]; ok {
		return style, nil
	}
	if id == 0 {
		return Style{}, nil
	}

	spec, err := w.file.GetStyle(id)
	if err != nil || spec == nil {
		return Style{}, nil
	}
	style := styleFromSpec(spec)
	w.styleByID[id] = style
	if _, ok := w.styleIDs[style]; !ok {
		w.styleIDs[style] = id
	}
	return style, nil
}

// styleFromSpec extracts the attributes this surface cares about from
// a persisted excelize style definition.
func styleFromSpec(spec *excelize.Style) Style {
	var style Style
	if spec.Font != nil {
		style.Bold = spec.Font.Bold
		style.FontSize = spec.Font.Size
		style.FontColor = normalizeColor(spec.Font.Color)
	}
	if spec.Fill.Type == "pattern" && len(spec.Fill.Color) > 0 {
		style.FillColor = normalizeColor(spec.Fill.Color[0])
	}
	if spec.Alignment != nil {
		style.Align = spec.Alignment.Horizontal
	}
	return style
}

// normalizeColor strips the alpha channel excelize prepends on write
// so a color reads back exactly as it was set.
func normalizeColor(color string) string {
	color = strings.ToUpper(strings.TrimPrefix(color, "#"))
	if len(color) == 8 && strings.HasPrefix(color, "FF") {
		return color[2:]
	}
	return color
}

// SetStyle writes a style at (row, col). The zero style resets the
// cell to the default format.
func (w *Workbook) SetStyle(row, col int, style Style) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}

	id := 0
	if !style.IsZero() {
		id, err = w.styleID(style)
		if err != nil {
			return err
		}
	}
	if err := w.file.SetCellStyle(w.sheet, cell, cell, id); err != nil {
		return fmt.Errorf("failed to style cell %s: %w", cell, err)
	}
	return nil
}

// ClearRange wipes values and styles in the inclusive rectangle.
func (w *Workbook) ClearRange(row1, col1, row2, col2 int) error {
	for row := row1; row <= row2; row++ {
		for col := col1; col <= col2; col++ {
			if err := w.Set(row, col, ""); err != nil {
				return err
			}
			if err := w.SetStyle(row, col, Style{}); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetColWidth sets the display width of a column.
func (w *Workbook) SetColWidth(col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Errorf("invalid column %d: %w", col, err)
	}
	if err := w.file.SetColWidth(w.sheet, name, name, width); err != nil {
		return fmt.Errorf("failed to set width of column %s: %w", name, err)
	}
	return nil
}

// Freeze fixes the panes above and left of (row, col).
func (w *Workbook) Freeze(row, col int) error {
	cell, err := cellName(row, col)
	if err != nil {
		return err
	}
	err = w.file.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      col - 1,
		YSplit:      row - 1,
		TopLeftCell: cell,
		ActivePane:  "bottomRight",
	})
	if err != nil {
		return fmt.Errorf("failed to freeze panes at %s: %w", cell, err)
	}
	return nil
}

// AutofitRows is a no-op: xlsx rows without an explicit height are
// already sized to content by the viewer.
func (w *Workbook) AutofitRows() error {
	return nil
}

// LastRow returns the highest row in the used region.
func (w *Workbook) LastRow() int {
	rows, err := w.file.GetRows(w.sheet)
	if err != nil {
		return 0
	}
	return len(rows)
}

// LastCol returns the highest column in the used region.
func (w *Workbook) LastCol() int {
	rows, err := w.file.GetRows(w.sheet)
	if err != nil {
		return 0
	}
	last := 0
	for _, row := range rows {
		if len(row) > last {
			last = len(row)
		}
	}
	return last
}
