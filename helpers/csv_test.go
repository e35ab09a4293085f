package helpers

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/badgerinventory/perfdash/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *engine.TableData {
	return &engine.TableData{
		Title: "Performance by Store",
		Columns: []engine.Column{
			{Key: "groupName", Label: "Store", Type: "text"},
			{Key: "count", Label: "Records", Type: "number"},
			{Key: "pieces", Label: "Avg Pieces", Type: "number"},
		},
		Rows: [][]string{
			{"K-101", "1,204", "133.33"},
			{"M-7, North", "2", "60.00"},
		},
	}
}

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteTableCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, sampleTable()))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Store", "Records", "Avg Pieces"}, rows[0])
	assert.Equal(t, []string{"M-7, North", "2", "60.00"}, rows[2])
}

func TestWriteTableCSVNil(t *testing.T) {
	assert.Error(t, WriteTableCSV(&bytes.Buffer{}, nil))
}

func TestWriteChartCSV(t *testing.T) {
	chart := &engine.ChartConfig{
		XAxis: "Employee",
		YAxis: "Avg. Pieces",
		Series: []engine.ChartSeries{{
			Name: "Avg. Pieces",
			Data: []engine.ChartPoint{{Label: "Ann", Value: 125}, {Label: "Bob", Value: 60.456}},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChartCSV(&buf, chart))

	assert.Equal(t, [][]string{
		{"Employee", "Avg. Pieces"},
		{"Ann", "125"},
		{"Bob", "60.46"},
	}, readCSV(t, buf.Bytes()))
}

func TestWriteChartCSVAnnotations(t *testing.T) {
	tr := engine.DetectExtremes([]engine.TrendPoint{
		{Label: "2024-01", Value: 1},
		{Label: "2024-02", Value: 3},
		{Label: "2024-03", Value: 2},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteChartCSV(&buf, engine.BuildTrendChart(tr, engine.MetricPieces)))

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Month", "Pieces", "Annotations"}, rows[0])
	assert.Equal(t, []string{"2024-01", "1", "Lowest"}, rows[1])
	assert.Equal(t, []string{"2024-02", "3", "Peak"}, rows[2])
	assert.Equal(t, []string{"2024-03", "2", ""}, rows[3])
}

func TestWriteChartCSVMultiSeries(t *testing.T) {
	chart := &engine.ChartConfig{
		Series: []engine.ChartSeries{
			{Name: "A", Data: []engine.ChartPoint{{Label: "x", Value: 1}, {Label: "y", Value: 2}}},
			{Name: "B", Data: []engine.ChartPoint{{Label: "x", Value: 3}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChartCSV(&buf, chart))
	assert.Equal(t, [][]string{
		{"Label", "A", "B"},
		{"x", "1", "3"},
		{"y", "2", ""},
	}, readCSV(t, buf.Bytes()))
}

func TestWriteChartCSVEmpty(t *testing.T) {
	assert.Error(t, WriteChartCSV(&bytes.Buffer{}, nil))
	assert.Error(t, WriteChartCSV(&bytes.Buffer{}, &engine.ChartConfig{}))
}
