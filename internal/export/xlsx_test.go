package export

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/atlaspack/internal/model"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.xlsx")
	result := buildTestResult()
	result.Unplaced = []model.Item{{Label: "skybox", Width: 4096, Height: 4096}}

	require.NoError(t, ExportXLSX(path, result))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{placementsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(placementsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5, "header plus four placements")
	assert.Equal(t, "Item", rows[0][2])
	assert.Equal(t, []string{"1", "Characters", "hero_run", "66", "0", "64", "96"}, rows[2][:7])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, "UI", summary[2][1])
	assert.Equal(t, "Total", summary[4][0])
	assert.Contains(t, summary[5][0], "1 item(s)")
}

func TestExportXLSX_EmptyResult(t *testing.T) {
	err := ExportXLSX(filepath.Join(t.TempDir(), "x.xlsx"), model.PackResult{})
	assert.True(t, errors.Is(err, ErrNoSheets))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 33.3, round1(33.333))
	assert.Equal(t, 66.7, round1(66.666))
}
