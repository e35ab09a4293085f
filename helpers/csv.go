package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/badgerinventory/perfdash/engine"
)

// ============================================================================
// CSV HELPER — Writes render-ready charts and tables as CSV
// ============================================================================
// Output opens directly in Sheets/Excel. Tables keep their formatted cell
// text; chart values are written as plain numbers.
// ============================================================================

// WriteTableCSV writes the column labels followed by every row.
func WriteTableCSV(w io.Writer, table *engine.TableData) error {
	if table == nil {
		return fmt.Errorf("no table to write")
	}
	cw := csv.NewWriter(w)

	if err := cw.Write(columnLabels(table)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteChartCSV writes one row per label. A single series becomes two
// columns; multiple series share the label column. Annotated charts get a
// trailing annotations column.
func WriteChartCSV(w io.Writer, chart *engine.ChartConfig) error {
	if chart == nil || len(chart.Series) == 0 {
		return fmt.Errorf("no chart data to write")
	}
	cw := csv.NewWriter(w)

	for _, row := range chartRows(chart) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func columnLabels(table *engine.TableData) []string {
	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	return headers
}

// chartRows flattens a chart into a header row plus data rows.
func chartRows(chart *engine.ChartConfig) [][]string {
	xLabel := chart.XAxis
	if xLabel == "" {
		xLabel = "Label"
	}

	annotated := false
	for _, d := range chart.Series[0].Data {
		if len(d.Annotations) > 0 {
			annotated = true
			break
		}
	}

	var headers []string
	if len(chart.Series) == 1 {
		yLabel := chart.YAxis
		if yLabel == "" {
			yLabel = "Value"
		}
		headers = []string{xLabel, yLabel}
	} else {
		headers = []string{xLabel}
		for _, s := range chart.Series {
			headers = append(headers, s.Name)
		}
	}
	if annotated {
		headers = append(headers, "Annotations")
	}

	rows := [][]string{headers}
	for i, d := range chart.Series[0].Data {
		row := []string{d.Label}
		for _, s := range chart.Series {
			if i < len(s.Data) {
				row = append(row, FormatNumber(s.Data[i].Value))
			} else {
				row = append(row, "")
			}
		}
		if annotated {
			row = append(row, joinAnnotations(d.Annotations))
		}
		rows = append(rows, row)
	}
	return rows
}

func joinAnnotations(notes []engine.Annotation) string {
	out := ""
	for i, n := range notes {
		if i > 0 {
			out += "; "
		}
		out += string(n)
	}
	return out
}

// FormatNumber prints whole numbers without decimals and everything else
// with two.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
