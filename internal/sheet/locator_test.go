package sheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laquereric/excel-mcp-client/internal/connector"
	"github.com/laquereric/excel-mcp-client/internal/grid"
)

func refreshedSurface(t *testing.T) *grid.Memory {
	t.Helper()
	source := newFakeSource().add("weather-mcp", &fakeServer{
		status: connector.StatusConnected,
		caps: connector.Capabilities{
			Tools:     tools("get_weather"),
			Resources: resources("db://schema"),
		},
	})
	mem := grid.NewMemory()
	_, err := NewManager(mem, source).Refresh(context.Background())
	require.NoError(t, err)
	return mem
}

func TestLocateCapabilityCell(t *testing.T) {
	mem := refreshedSurface(t)

	// TOOLS header at row 4, marker at row 5, get_weather at row 6.
	location, ok, err := Locate(mem, 6, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "weather-mcp", location.Server)
	assert.Equal(t, connector.SectionTool, location.Section)
	assert.Equal(t, "get_weather", location.Name)
}

func TestLocateResourceCell(t *testing.T) {
	mem := refreshedSurface(t)

	// RESOURCES header at row 8, marker at 9, db://schema at 10.
	location, ok, err := Locate(mem, 10, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, connector.SectionResource, location.Section)
	assert.Equal(t, "db://schema", location.Name)
}

func TestLocateMisses(t *testing.T) {
	mem := refreshedSurface(t)

	tests := []struct {
		name string
		row  int
		col  int
	}{
		{"marker row has no label", 5, 2},
		{"separator row has no label", 7, 2},
		{"section header row is not a capability", 4, 2},
		{"column without a server header", 6, 9},
		{"status row is above the data region", StatusRow, 2},
		{"label column is not a server column", 6, LabelColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := Locate(mem, tt.row, tt.col)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}
