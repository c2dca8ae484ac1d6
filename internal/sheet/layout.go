package sheet

import (
	"github.com/laquereric/excel-mcp-client/internal/connector"
	"github.com/laquereric/excel-mcp-client/internal/grid"
)

// Sheet geometry. Column 1 carries row labels, row 1 the server
// headers, row 2 the status line; data starts below one blank row.
const (
	LabelColumn  = 1
	FirstNameCol = 2
	HeaderRow    = 1
	StatusRow    = 2
	FirstDataRow = 4
)

// HeaderLabel marks an initialized sheet at (HeaderRow, LabelColumn).
const HeaderLabel = "Capability Type"

// StatusLabel is the row label of the status line.
const StatusLabel = "Status"

const (
	labelColumnWidth  = 20
	serverColumnWidth = 18
	markerFontSize    = 14
)

// Fill colors, matching the workbook palette.
const (
	ColorHeader       = "4472C4" // blue
	ColorSection      = "D9D9D9" // light gray
	ColorConnected    = "C6E0B4" // light green
	ColorDisconnected = "FFC7CE" // light red
	ColorError        = "FFEB9C" // light yellow
)

var (
	headerStyle  = grid.Style{Bold: true, FontColor: "FFFFFF", FillColor: ColorHeader}
	sectionStyle = grid.Style{Bold: true, FillColor: ColorSection}
	labelStyle   = grid.Style{Bold: true}
	markerStyle  = grid.Style{FontSize: markerFontSize}
)

func statusStyle(status connector.Status) grid.Style {
	switch status {
	case connector.StatusConnected:
		return grid.Style{FillColor: ColorConnected}
	case connector.StatusDisconnected:
		return grid.Style{FillColor: ColorDisconnected}
	default:
		return grid.Style{FillColor: ColorError}
	}
}

// sectionLayout tracks the row range one capability section occupies.
// Rows only ever grow downward; assigned rows never move relative to
// their section.
type sectionLayout struct {
	headerRow int            // bold "TOOLS"/"RESOURCES"/"PROMPTS" row
	markerRow int            // has-any marker row below the header
	rows      map[string]int // capability name -> assigned row
	lastRow   int            // last label row, or markerRow when empty
}

// layoutIndex mirrors the persistent column/row assignment of the grid
// in memory so lookups do not rescan the surface. It is rebuilt from
// the surface on attach and kept in sync with every write.
type layoutIndex struct {
	columns  map[string]int
	lastCol  int // highest assigned server column, or LabelColumn
	sections map[connector.Section]*sectionLayout
}

func newLayoutIndex() *layoutIndex {
	idx := &layoutIndex{
		columns:  make(map[string]int),
		lastCol:  LabelColumn,
		sections: make(map[connector.Section]*sectionLayout),
	}
	row := FirstDataRow
	for _, section := range connector.Sections {
		idx.sections[section] = &sectionLayout{
			headerRow: row,
			markerRow: row + 1,
			rows:      make(map[string]int),
			lastRow:   row + 1,
		}
		// header + marker + trailing blank separator
		row += 3
	}
	return idx
}

// bottomRow is the trailing blank separator of the last section, the
// lowest row the layout owns.
func (idx *layoutIndex) bottomRow() int {
	last := connector.Sections[len(connector.Sections)-1]
	return idx.sections[last].lastRow + 1
}

// resolveColumn returns the column assigned to a server, or 0.
func (idx *layoutIndex) resolveColumn(server string) int {
	return idx.columns[server]
}

// allocateColumn returns the leftmost free header slot. Columns are
// assigned densely from FirstNameCol, so that is the slot after the
// highest assigned one. The caller must record the assignment before
// allocating again.
func (idx *layoutIndex) allocateColumn() int {
	if idx.lastCol < FirstNameCol {
		return FirstNameCol
	}
	return idx.lastCol + 1
}

func (idx *layoutIndex) assignColumn(server string, col int) {
	idx.columns[server] = col
	if col > idx.lastCol {
		idx.lastCol = col
	}
}

// shiftRowsFrom bumps every tracked row at or below the given row by
// one, making room for an inserted label row.
func (idx *layoutIndex) shiftRowsFrom(row int) {
	for _, section := range idx.sections {
		if section.headerRow >= row {
			section.headerRow++
		}
		if section.markerRow >= row {
			section.markerRow++
		}
		if section.lastRow >= row {
			section.lastRow++
		}
		for name, r := range section.rows {
			if r >= row {
				section.rows[name] = r + 1
			}
		}
	}
}

// sectionAt returns the section whose row range contains the given
// row, or "" for structural rows outside any section body.
func (idx *layoutIndex) sectionAt(row int) connector.Section {
	for _, section := range connector.Sections {
		s := idx.sections[section]
		if row >= s.headerRow && row <= s.lastRow {
			return section
		}
	}
	return ""
}

// rebuildLayout reconstructs the index by scanning an initialized
// surface: server columns from the header row, section geometry and
// label rows from column 1.
func rebuildLayout(surface grid.Surface) (*layoutIndex, error) {
	idx := &layoutIndex{
		columns:  make(map[string]int),
		lastCol:  LabelColumn,
		sections: make(map[connector.Section]*sectionLayout),
	}

	for col := FirstNameCol; ; col++ {
		name, err := surface.Get(HeaderRow, col)
		if err != nil {
			return nil, err
		}
		if name == "" {
			break
		}
		idx.assignColumn(name, col)
	}

	headers := make(map[string]connector.Section, len(connector.Sections))
	for _, section := range connector.Sections {
		headers[section.Header()] = section
	}

	lastRow := surface.LastRow()
	var current *sectionLayout
	for row := FirstDataRow; row <= lastRow; row++ {
		value, err := surface.Get(row, LabelColumn)
		if err != nil {
			return nil, err
		}
		if section, ok := headers[value]; ok {
			current = &sectionLayout{
				headerRow: row,
				markerRow: row + 1,
				rows:      make(map[string]int),
				lastRow:   row + 1,
			}
			idx.sections[section] = current
			// skip the marker row
			row++
			continue
		}
		if value == "" || current == nil {
			continue
		}
		current.rows[value] = row
		current.lastRow = row
	}

	// A sheet that carries the header marker but not the full section
	// skeleton is treated as uninitialized below the headers.
	for _, section := range connector.Sections {
		if _, ok := idx.sections[section]; !ok {
			return nil, nil
		}
	}
	return idx, nil
}
