package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/badgerinventory/perfdash/engine"
	"github.com/badgerinventory/perfdash/helpers"
)

// ============================================================================
// OUTPUT — Renders a dashboard view in the requested format
// ============================================================================

// section is one renderable part of a dashboard. Exactly one of chart or
// table backs the csv and xlsx formats; data backs json.
type section struct {
	title string
	data  any
	chart *engine.ChartConfig
	table *engine.TableData
}

func sections(v *engine.DashboardView) map[string]section {
	return map[string]section{
		"kpis":       {title: "KPIs", data: v.KPICards},
		"comparison": {title: "Comparison", data: v.Ranking, chart: v.ComparisonChart},
		"trend":      {title: "Trend", data: v.Trend, chart: v.TrendChart},
		"dayofweek":  {title: "Day of Week", data: v.DayOfWeek, chart: v.DayOfWeekChart},
		"anomaly":    {title: "Anomalies", data: v.Anomalies, table: v.AnomalyTable},
		"employees":  {title: "Employees", data: v.EmployeeTable, table: v.EmployeeTable},
		"groups":     {title: "Groups", data: v.GroupTable, table: v.GroupTable},
		"raw":        {title: "Records", data: v.RecordTable, table: v.RecordTable},
	}
}

// sheetOrder is the workbook layout of a full dashboard export.
var sheetOrder = []string{"comparison", "trend", "dayofweek", "anomaly", "employees", "groups", "raw"}

func render(w io.Writer, v *engine.DashboardView, view, format string) error {
	all := sections(v)

	if format == "text" {
		_, err := fmt.Fprintln(w, v.Summary)
		return err
	}

	if view == "dashboard" {
		switch format {
		case "json", "pretty":
			return writeJSON(w, v, format)
		case "xlsx":
			sheets := make([]helpers.Sheet, 0, len(sheetOrder))
			for _, name := range sheetOrder {
				if s, ok := sheetFor(all[name]); ok {
					sheets = append(sheets, s)
				}
			}
			if len(sheets) == 0 {
				return fmt.Errorf("no records match the current filters")
			}
			return helpers.WriteXLSX(w, sheets...)
		}
		return fmt.Errorf("format %q is not available for the dashboard view", format)
	}

	s, ok := all[view]
	if !ok {
		return fmt.Errorf("unknown view %q", view)
	}

	switch format {
	case "json", "pretty":
		return writeJSON(w, s.data, format)
	case "csv":
		switch {
		case s.table != nil:
			return helpers.WriteTableCSV(w, s.table)
		case s.chart != nil:
			return helpers.WriteChartCSV(w, s.chart)
		}
		return fmt.Errorf("view %q has nothing to write as csv", view)
	case "xlsx":
		sheet, ok := sheetFor(s)
		if !ok {
			return fmt.Errorf("view %q has nothing to write as xlsx", view)
		}
		return helpers.WriteXLSX(w, sheet)
	}
	return fmt.Errorf("unknown format %q", format)
}

func sheetFor(s section) (helpers.Sheet, bool) {
	switch {
	case s.table != nil:
		return helpers.TableSheet(s.title, s.table), true
	case s.chart != nil:
		return helpers.ChartSheet(s.title, s.chart), true
	}
	return helpers.Sheet{}, false
}

func writeJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
