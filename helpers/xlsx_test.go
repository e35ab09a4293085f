package helpers

import (
	"bytes"
	"testing"

	"github.com/badgerinventory/perfdash/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	chart := &engine.ChartConfig{
		XAxis:  "Employee",
		YAxis:  "Avg. Pieces",
		Series: []engine.ChartSeries{{Data: []engine.ChartPoint{{Label: "Ann", Value: 125.5}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf,
		TableSheet("Stores", sampleTable()),
		ChartSheet("Top/Bottom", chart),
	))

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{"Stores", "Top-Bottom"}, file.GetSheetList())

	rows, err := file.GetRows("Stores")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Store", "Records", "Avg Pieces"}, rows[0])
	assert.Equal(t, "K-101", rows[1][0])

	// number columns are stored as numbers
	typ, err := file.GetCellType("Stores", "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
	count, err := file.GetCellValue("Stores", "B2")
	require.NoError(t, err)
	assert.Equal(t, "1204", count)

	chartRows, err := file.GetRows("Top-Bottom")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Employee", "Avg. Pieces"}, {"Ann", "125.5"}}, chartRows)
}

func TestWriteXLSXDuplicateAndLongNames(t *testing.T) {
	var buf bytes.Buffer
	long := "Averages by Employee for the whole year"
	require.NoError(t, WriteXLSX(&buf,
		TableSheet(long, sampleTable()),
		TableSheet(long, sampleTable()),
		TableSheet("", sampleTable()),
	))

	file, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer file.Close()

	names := file.GetSheetList()
	require.Len(t, names, 3)
	assert.Equal(t, "Averages by Employee for the w", names[0][:30])
	assert.Len(t, []rune(names[1]), 31)
	assert.Contains(t, names[1], "(2)")
	assert.Equal(t, "Sheet3", names[2])
}

func TestWriteXLSXNoSheets(t *testing.T) {
	assert.Error(t, WriteXLSX(&bytes.Buffer{}))
}
