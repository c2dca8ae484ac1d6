package grid

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempWorkbook(t *testing.T) (*Workbook, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "caps.xlsx")
	workbook, err := OpenWorkbook(path, "MCPs")
	require.NoError(t, err)
	return workbook, path
}

func TestWorkbookValueRoundTrip(t *testing.T) {
	workbook, path := openTempWorkbook(t)
	require.NoError(t, workbook.Set(1, 1, "Capability Type"))
	require.NoError(t, workbook.Set(6, 2, "✓"))
	require.NoError(t, workbook.Save())
	require.NoError(t, workbook.Close())

	reopened, err := OpenWorkbook(path, "MCPs")
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Capability Type", value)
	value, err = reopened.Get(6, 2)
	require.NoError(t, err)
	assert.Equal(t, "✓", value)
}

func TestWorkbookStyleRoundTrip(t *testing.T) {
	styles := []Style{
		{Bold: true, FontColor: "FFFFFF", FillColor: "4472C4"},
		{Bold: true, FillColor: "D9D9D9"},
		{Bold: true},
		{FontSize: 14},
		{FillColor: "C6E0B4"},
	}

	workbook, path := openTempWorkbook(t)
	for i, style := range styles {
		require.NoError(t, workbook.Set(i+1, 1, "cell"))
		require.NoError(t, workbook.SetStyle(i+1, 1, style))
	}
	require.NoError(t, workbook.Save())
	require.NoError(t, workbook.Close())

	// A fresh process has an empty style cache; styles must be
	// decoded from the workbook itself.
	reopened, err := OpenWorkbook(path, "MCPs")
	require.NoError(t, err)
	defer reopened.Close()

	for i, want := range styles {
		got, err := reopened.GetStyle(i+1, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got, "style of row %d", i+1)
	}
}

func TestWorkbookUnstyledCellReadsZeroStyle(t *testing.T) {
	workbook, path := openTempWorkbook(t)
	require.NoError(t, workbook.Set(3, 3, "plain"))
	require.NoError(t, workbook.Save())
	require.NoError(t, workbook.Close())

	reopened, err := OpenWorkbook(path, "MCPs")
	require.NoError(t, err)
	defer reopened.Close()

	style, err := reopened.GetStyle(3, 3)
	require.NoError(t, err)
	assert.True(t, style.IsZero())
}

func TestNormalizeColor(t *testing.T) {
	assert.Equal(t, "D9D9D9", normalizeColor("FFD9D9D9"))
	assert.Equal(t, "D9D9D9", normalizeColor("d9d9d9"))
	assert.Equal(t, "4472C4", normalizeColor("#4472C4"))
	assert.Equal(t, "FFC7CE", normalizeColor("FFC7CE"))
}
