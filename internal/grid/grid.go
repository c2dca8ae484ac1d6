// Package grid abstracts the 2D cell store the capability sheet is
// written to. Coordinates are 1-based; column 1 and rows 1-2 are
// reserved by the sheet layout, not by the surface itself.
package grid

// Style carries the cell formatting the sheet engine uses. The zero
// value is the unstyled cell.
type Style struct {
	Bold      bool
	FontSize  float64
	FontColor string // hex RGB, e.g. "FFFFFF"
	FillColor string // hex RGB background, e.g. "4472C4"
	Align     string // "left", "center", "right"
}

// IsZero reports whether the style is the default, unstyled cell.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Surface is a 2D addressable cell store with value and style access.
// Implementations are not safe for concurrent use; the sheet engine
// owns the surface exclusively for the duration of one operation.
type Surface interface {
	// Get returns the value at (row, col), or "" for an empty cell.
	Get(row, col int) (string, error)
	// Set writes a value; an empty string clears the cell value.
	Set(row, col int, value string) error

	GetStyle(row, col int) (Style, error)
	SetStyle(row, col int, style Style) error

	// ClearRange wipes values and styles in the inclusive rectangle.
	ClearRange(row1, col1, row2, col2 int) error

	SetColWidth(col int, width float64) error
	// Freeze fixes the panes above and left of (row, col).
	Freeze(row, col int) error
	// AutofitRows adjusts row heights to content where the backend
	// supports it; otherwise a no-op.
	AutofitRows() error

	// LastRow and LastCol bound the used region. Both return 0 for an
	// empty surface.
	LastRow() int
	LastCol() int
}

// Copy replicates the used region of src onto dst, values and styles.
// Column widths and frozen panes are not carried over.
func Copy(dst, src Surface) error {
	lastRow := src.LastRow()
	lastCol := src.LastCol()
	for row := 1; row <= lastRow; row++ {
		for col := 1; col <= lastCol; col++ {
			value, err := src.Get(row, col)
			if err != nil {
				return err
			}
			style, err := src.GetStyle(row, col)
			if err != nil {
				return err
			}
			if value == "" && style.IsZero() {
				continue
			}
			if err := dst.Set(row, col, value); err != nil {
				return err
			}
			if err := dst.SetStyle(row, col, style); err != nil {
				return err
			}
		}
	}
	return nil
}
