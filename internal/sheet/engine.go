package sheet

import (
	"context"
	"fmt"

	"github.com/laquereric/excel-mcp-client/internal/connector"
	"github.com/laquereric/excel-mcp-client/internal/grid"
	"github.com/laquereric/excel-mcp-client/pkg/logging"
)

// RefreshResult summarizes one refresh cycle. It is returned to the
// caller and not persisted.
type RefreshResult struct {
	ServersFound     int
	ServersConnected int
	Errors           []string
}

// Manager reconciles discovered servers and capabilities into the
// capability sheet. Servers keep their column and capabilities keep
// their row for the lifetime of the layout; new ones are appended,
// never reassigned. Not safe for concurrent use: the surface is owned
// exclusively for the duration of one call.
type Manager struct {
	surface grid.Surface
	source  connector.Source
	layout  *layoutIndex
}

// NewManager creates a sheet manager over the given surface and
// capability source.
func NewManager(surface grid.Surface, source connector.Source) *Manager {
	return &Manager{surface: surface, source: source}
}

// EnsureLayout makes sure the sheet carries the expected header,
// status line, and section skeleton, initializing them when absent.
// Idempotent; only surface failures are returned.
func (m *Manager) EnsureLayout() error {
	if m.layout != nil {
		return nil
	}

	marker, err := m.surface.Get(HeaderRow, LabelColumn)
	if err != nil {
		return err
	}
	if marker == HeaderLabel {
		layout, err := rebuildLayout(m.surface)
		if err != nil {
			return err
		}
		if layout != nil {
			m.layout = layout
			return nil
		}
	}

	return m.initializeLayout()
}

func (m *Manager) initializeLayout() error {
	if err := m.surface.Set(HeaderRow, LabelColumn, HeaderLabel); err != nil {
		return err
	}
	if err := m.surface.SetStyle(HeaderRow, LabelColumn, headerStyle); err != nil {
		return err
	}
	if err := m.surface.Set(StatusRow, LabelColumn, StatusLabel); err != nil {
		return err
	}
	if err := m.surface.SetStyle(StatusRow, LabelColumn, labelStyle); err != nil {
		return err
	}
	if err := m.surface.SetColWidth(LabelColumn, labelColumnWidth); err != nil {
		return err
	}
	if err := m.surface.Freeze(FirstDataRow-1, FirstNameCol); err != nil {
		return err
	}

	layout := newLayoutIndex()
	for _, section := range connector.Sections {
		s := layout.sections[section]
		if err := m.surface.Set(s.headerRow, LabelColumn, section.Header()); err != nil {
			return err
		}
		if err := m.surface.SetStyle(s.headerRow, LabelColumn, sectionStyle); err != nil {
			return err
		}
	}

	m.layout = layout
	logging.Info("Sheet", "Initialized capability sheet layout")
	return nil
}

// Refresh runs one full reconciliation cycle: discovers servers,
// resolves each to its stable column, rewrites that column, and
// appends label rows for capabilities seen for the first time.
// Columns and rows of servers or capabilities absent from this
// discovery are left untouched. Per-server source failures are
// aggregated into the result; surface failures abort the refresh.
func (m *Manager) Refresh(ctx context.Context) (*RefreshResult, error) {
	if err := m.EnsureLayout(); err != nil {
		return nil, err
	}

	servers, err := m.source.DiscoverServers(ctx)
	if err != nil {
		logging.Warn("Sheet", "Server discovery failed: %v", err)
		servers = nil
	}
	if len(servers) == 0 {
		return &RefreshResult{Errors: []string{"no servers found"}}, nil
	}

	result := &RefreshResult{ServersFound: len(servers)}

	for _, discovered := range servers {
		server := m.source.CheckConnection(ctx, discovered.Name)

		// Fetch every section before touching the column so a failed
		// server never leaves a partially written column behind.
		var caps connector.Capabilities
		if server.Status == connector.StatusConnected {
			caps, err = connector.ListCapabilities(ctx, m.source, server.Name)
			if err != nil {
				server.Status = connector.StatusError
				server.ErrorMessage = err.Error()
			}
		}

		if err := m.writeServerColumn(server, caps); err != nil {
			logging.Error("Sheet", err, "Aborting refresh: could not write column for %s", server.Name)
			return nil, fmt.Errorf("failed to write column for %s: %w", server.Name, err)
		}

		if server.Status == connector.StatusConnected {
			result.ServersConnected++
		} else {
			detail := server.ErrorMessage
			if detail == "" {
				detail = "Connection failed"
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", server.Name, detail))
		}
	}

	if err := m.surface.AutofitRows(); err != nil {
		return nil, err
	}

	logging.Info("Sheet", "Refresh complete: %d servers, %d connected, %d errors",
		result.ServersFound, result.ServersConnected, len(result.Errors))
	return result, nil
}

// ensureColumn resolves a server to its assigned column, allocating
// the leftmost free slot for a server seen for the first time. Reused
// columns are cleared from the status row down before rewriting so
// stale marks from a prior refresh never survive.
func (m *Manager) ensureColumn(server string) (int, error) {
	if col := m.layout.resolveColumn(server); col != 0 {
		if err := m.surface.ClearRange(StatusRow, col, m.layout.bottomRow(), col); err != nil {
			return 0, err
		}
		return col, nil
	}
	col := m.layout.allocateColumn()
	m.layout.assignColumn(server, col)
	return col, nil
}

func (m *Manager) writeServerColumn(server connector.Server, caps connector.Capabilities) error {
	col, err := m.ensureColumn(server.Name)
	if err != nil {
		return err
	}

	if err := m.surface.Set(HeaderRow, col, server.Name); err != nil {
		return err
	}
	if err := m.surface.SetStyle(HeaderRow, col, headerStyle); err != nil {
		return err
	}
	if err := m.surface.SetColWidth(col, serverColumnWidth); err != nil {
		return err
	}

	if err := m.surface.Set(StatusRow, col, string(server.Status)); err != nil {
		return err
	}
	if err := m.surface.SetStyle(StatusRow, col, statusStyle(server.Status)); err != nil {
		return err
	}

	if server.Status != connector.StatusConnected {
		return nil
	}

	for _, section := range connector.Sections {
		if err := m.writeSection(col, section, caps.BySection(section)); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) writeSection(col int, section connector.Section, caps []connector.Capability) error {
	s := m.layout.sections[section]

	if len(caps) == 0 {
		return m.surface.Set(s.markerRow, col, "-")
	}

	if err := m.surface.Set(s.markerRow, col, "✓"); err != nil {
		return err
	}
	if err := m.surface.SetStyle(s.markerRow, col, markerStyle); err != nil {
		return err
	}

	for _, capability := range caps {
		row, err := m.ensureRow(section, capability.Name)
		if err != nil {
			return err
		}
		if err := m.surface.Set(row, col, "✓"); err != nil {
			return err
		}
	}
	return nil
}

// ensureRow resolves a (section, name) pair to its assigned label row.
// A previously unseen pair is appended directly after the last row of
// its section, pushing the section's trailing separator and every
// later row down by exactly one.
func (m *Manager) ensureRow(section connector.Section, name string) (int, error) {
	s := m.layout.sections[section]
	if row, ok := s.rows[name]; ok {
		return row, nil
	}

	insertAt := s.lastRow + 1
	if err := m.shiftDown(insertAt); err != nil {
		return 0, err
	}
	m.layout.shiftRowsFrom(insertAt)

	if err := m.surface.Set(insertAt, LabelColumn, name); err != nil {
		return 0, err
	}
	s.rows[name] = insertAt
	s.lastRow = insertAt
	return insertAt, nil
}

// shiftDown moves every cell from the given row to the layout bottom
// down one row, values and styles, leaving the given row blank.
func (m *Manager) shiftDown(fromRow int) error {
	bottom := m.layout.bottomRow()
	for row := bottom; row >= fromRow; row-- {
		for col := LabelColumn; col <= m.layout.lastCol; col++ {
			value, err := m.surface.Get(row, col)
			if err != nil {
				return err
			}
			style, err := m.surface.GetStyle(row, col)
			if err != nil {
				return err
			}
			if err := m.surface.Set(row+1, col, value); err != nil {
				return err
			}
			if err := m.surface.SetStyle(row+1, col, style); err != nil {
				return err
			}
		}
	}
	return m.surface.ClearRange(fromRow, LabelColumn, fromRow, m.layout.lastCol)
}

// Clear wipes the whole sheet area and re-initializes an empty,
// correctly headered layout.
func (m *Manager) Clear() error {
	lastRow := m.surface.LastRow()
	lastCol := m.surface.LastCol()
	if m.layout != nil {
		if bottom := m.layout.bottomRow(); bottom > lastRow {
			lastRow = bottom
		}
		if m.layout.lastCol > lastCol {
			lastCol = m.layout.lastCol
		}
	}
	if lastRow > 0 && lastCol > 0 {
		if err := m.surface.ClearRange(1, 1, lastRow, lastCol); err != nil {
			return err
		}
	}
	m.layout = nil
	return m.EnsureLayout()
}
