package sheet

import (
	"strings"

	"github.com/laquereric/excel-mcp-client/internal/connector"
	"github.com/laquereric/excel-mcp-client/internal/grid"
)

// Location identifies what a sheet cell represents.
type Location struct {
	Server  string
	Section connector.Section
	Name    string
}

// Locate recovers which server, section, and capability a cell
// belongs to by reading the header row and walking column 1 upward to
// the nearest section header. The second return is false for cells
// outside any server column or not aligned to a label row (separator,
// marker, and section-header rows included).
func Locate(surface grid.Surface, row, col int) (Location, bool, error) {
	if col < FirstNameCol {
		return Location{}, false, nil
	}

	server, err := surface.Get(HeaderRow, col)
	if err != nil {
		return Location{}, false, err
	}
	if server == "" {
		return Location{}, false, nil
	}

	name, err := surface.Get(row, LabelColumn)
	if err != nil {
		return Location{}, false, err
	}
	if name == "" {
		return Location{}, false, nil
	}

	for search := row; search >= FirstDataRow; search-- {
		value, err := surface.Get(search, LabelColumn)
		if err != nil {
			return Location{}, false, err
		}
		switch value {
		case connector.SectionTool.Header(), connector.SectionResource.Header(), connector.SectionPrompt.Header():
			if search == row {
				// The cell sits on the section-header row itself.
				return Location{}, false, nil
			}
			section := connector.Section(strings.ToLower(strings.TrimSuffix(value, "S")))
			return Location{Server: server, Section: section, Name: name}, true, nil
		}
	}
	return Location{}, false, nil
}
