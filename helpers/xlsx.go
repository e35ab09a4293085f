// Package helpers exports dashboard tables and charts as CSV and XLSX.
package helpers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/badgerinventory/perfdash/engine"
	"github.com/xuri/excelize/v2"
)

// ============================================================================
// XLSX HELPER — One worksheet per table or chart
// ============================================================================

// maxSheetName is the Excel limit on worksheet name length.
const maxSheetName = 31

// Sheet is a named grid of cells.
type Sheet struct {
	Name string
	Rows [][]any
}

// TableSheet converts a table. Cells in number columns are written as
// numbers when they parse.
func TableSheet(name string, table *engine.TableData) Sheet {
	header := make([]any, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Label
	}
	rows := [][]any{header}

	for _, r := range table.Rows {
		row := make([]any, len(r))
		for i, cell := range r {
			row[i] = cell
			if i < len(table.Columns) && table.Columns[i].Type == "number" {
				if v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err == nil {
					row[i] = v
				}
			}
		}
		rows = append(rows, row)
	}
	return Sheet{Name: name, Rows: rows}
}

// ChartSheet converts a chart using the same layout as WriteChartCSV.
func ChartSheet(name string, chart *engine.ChartConfig) Sheet {
	if chart == nil || len(chart.Series) == 0 {
		return Sheet{Name: name}
	}
	flat := chartRows(chart)
	rows := make([][]any, len(flat))
	for i, r := range flat {
		row := make([]any, len(r))
		for j, cell := range r {
			row[j] = cell
			if i > 0 && j > 0 && j <= len(chart.Series) {
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					row[j] = v
				}
			}
		}
		rows[i] = row
	}
	return Sheet{Name: name, Rows: rows}
}

// WriteXLSX writes sheets as a workbook. The first sheet is active.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	used := make(map[string]bool)

	for i, s := range sheets {
		name := uniqueSheetName(sanitizeSheetName(s.Name, i), used)
		idx, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			values := row
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("failed to write sheet %q row %d: %w", name, r+1, err)
			}
		}
	}

	if !used[strings.ToLower(defaultSheet)] {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func sanitizeSheetName(name string, i int) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(name)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
