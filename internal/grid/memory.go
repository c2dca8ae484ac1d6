package grid

import (
	"fmt"
	"sort"
	"strings"
)

type memCell struct {
	value string
	style Style
}

// Memory is a map-backed Surface. It backs the engine tests and the
// dry-run preview; Snapshot gives a canonical rendering for
// byte-for-byte idempotence checks.
type Memory struct {
	cells map[[2]int]memCell

	colWidths map[int]float64
	freezeRow int
	freezeCol int
}

// NewMemory creates an empty in-memory surface.
func NewMemory() *Memory {
	return &Memory{
		cells:     make(map[[2]int]memCell),
		colWidths: make(map[int]float64),
	}
}

func (m *Memory) checkCoords(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell coordinates (%d, %d)", row, col)
	}
	return nil
}

// Get returns the value at (row, col).
func (m *Memory) Get(row, col int) (string, error) {
	if err := m.checkCoords(row, col); err != nil {
		return "", err
	}
	return m.cells[[2]int{row, col}].value, nil
}

// Set writes a value at (row, col).
func (m *Memory) Set(row, col int, value string) error {
	if err := m.checkCoords(row, col); err != nil {
		return err
	}
	key := [2]int{row, col}
	cell := m.cells[key]
	cell.value = value
	if cell.value == "" && cell.style.IsZero() {
		delete(m.cells, key)
		return nil
	}
	m.cells[key] = cell
	return nil
}

// GetStyle returns the style at (row, col).
func (m *Memory) GetStyle(row, col int) (Style, error) {
	if err := m.checkCoords(row, col); err != nil {
		return Style{}, err
	}
	return m.cells[[2]int{row, col}].style, nil
}

// SetStyle writes a style at (row, col).
func (m *Memory) SetStyle(row, col int, style Style) error {
	if err := m.checkCoords(row, col); err != nil {
		return err
	}
	key := [2]int{row, col}
	cell := m.cells[key]
	cell.style = style
	if cell.value == "" && cell.style.IsZero() {
		delete(m.cells, key)
		return nil
	}
	m.cells[key] = cell
	return nil
}

// ClearRange wipes values and styles in the inclusive rectangle.
func (m *Memory) ClearRange(row1, col1, row2, col2 int) error {
	if err := m.checkCoords(row1, col1); err != nil {
		return err
	}
	for key := range m.cells {
		if key[0] >= row1 && key[0] <= row2 && key[1] >= col1 && key[1] <= col2 {
			delete(m.cells, key)
		}
	}
	return nil
}

// SetColWidth records the width of a column.
func (m *Memory) SetColWidth(col int, width float64) error {
	if err := m.checkCoords(1, col); err != nil {
		return err
	}
	m.colWidths[col] = width
	return nil
}

// ColWidth returns the recorded width of a column, or 0.
func (m *Memory) ColWidth(col int) float64 {
	return m.colWidths[col]
}

// Freeze records the frozen-pane boundary.
func (m *Memory) Freeze(row, col int) error {
	m.freezeRow, m.freezeCol = row, col
	return nil
}

// FrozenAt returns the recorded frozen-pane boundary.
func (m *Memory) FrozenAt() (row, col int) {
	return m.freezeRow, m.freezeCol
}

// AutofitRows is a no-op for the in-memory surface.
func (m *Memory) AutofitRows() error {
	return nil
}

// LastRow returns the highest row holding a value or style.
func (m *Memory) LastRow() int {
	last := 0
	for key := range m.cells {
		if key[0] > last {
			last = key[0]
		}
	}
	return last
}

// LastCol returns the highest column holding a value or style.
func (m *Memory) LastCol() int {
	last := 0
	for key := range m.cells {
		if key[1] > last {
			last = key[1]
		}
	}
	return last
}

// Snapshot renders the whole surface, values and styles, in a
// deterministic order. Two surfaces with identical contents produce
// identical snapshots.
func (m *Memory) Snapshot() string {
	keys := make([][2]int, 0, len(m.cells))
	for key := range m.cells {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	var b strings.Builder
	for _, key := range keys {
		cell := m.cells[key]
		fmt.Fprintf(&b, "(%d,%d)=%q", key[0], key[1], cell.value)
		if !cell.style.IsZero() {
			fmt.Fprintf(&b, " style=%+v", cell.style)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
