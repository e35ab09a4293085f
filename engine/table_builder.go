package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from aggregates and records
// ============================================================================

func metricColumns(prefix string) []Column {
	cols := make([]Column, 0, len(Metrics))
	for _, m := range Metrics {
		cols = append(cols, Column{Key: string(m), Label: prefix + m.Label(), Type: "number", Align: "right"})
	}
	return cols
}

func fmt2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// BuildEmployeeTable renders the averages-by-employee table.
func BuildEmployeeTable(rows []EmployeeSummary) *TableData {
	columns := []Column{
		{Key: "employee", Label: "Employee", Type: "text", Align: "left"},
		{Key: "consistency", Label: "Consistency Score", Type: "number", Align: "right"},
	}
	columns = append(columns, metricColumns("Avg ")...)

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{r.Employee, strconv.FormatFloat(r.Consistency, 'f', 1, 64)}
		for _, m := range Metrics {
			row = append(row, fmt2(r.Averages[m]))
		}
		out = append(out, row)
	}

	return &TableData{
		Title:   "Averages by Employee",
		Columns: columns,
		Rows:    out,
		Summary: &Summary{
			Label:  "Employees",
			Values: map[string]string{"employee": FormatInt(len(rows))},
		},
	}
}

// BuildGroupTable renders per-store or per-supervisor averages.
func BuildGroupTable(rows []GroupAggregate, dim Dimension) *TableData {
	columns := []Column{
		{Key: "groupName", Label: dim.Label(), Type: "text", Align: "left"},
		{Key: "count", Label: "Records", Type: "number", Align: "center"},
	}
	columns = append(columns, metricColumns("Avg ")...)

	out := make([][]string, 0, len(rows))
	total := 0
	for _, g := range rows {
		row := []string{g.Key, strconv.Itoa(g.Count)}
		for _, m := range Metrics {
			row = append(row, fmt2(g.Averages[m]))
		}
		out = append(out, row)
		total += g.Count
	}

	return &TableData{
		Title:   fmt.Sprintf("Performance by %s", dim.Label()),
		Columns: columns,
		Rows:    out,
		Summary: &Summary{
			Label:  "Total",
			Values: map[string]string{"count": FormatInt(total)},
		},
	}
}

// BuildRecordTable renders one page of raw records.
func BuildRecordTable(page []EmployeeRecord, p Pagination) *TableData {
	columns := []Column{
		{Key: "date", Label: "Date", Type: "date", Align: "left"},
		{Key: "employee", Label: "Employee", Type: "text", Align: "left"},
		{Key: "office", Label: "Office", Type: "text", Align: "left"},
		{Key: "account", Label: "Account", Type: "text", Align: "left"},
		{Key: "store", Label: "Store", Type: "text", Align: "left"},
	}
	columns = append(columns, metricColumns("")...)

	out := make([][]string, 0, len(page))
	for _, r := range page {
		row := []string{r.Date, r.Employee, r.Office, r.Account, r.Store}
		for _, m := range Metrics {
			row = append(row, fmt2(GetMetric(r, m)))
		}
		out = append(out, row)
	}

	pg := p
	return &TableData{
		Title:      "All Stores",
		Columns:    columns,
		Rows:       out,
		Pagination: &pg,
	}
}

// BuildAnomalyTable renders detected anomalies.
func BuildAnomalyTable(anoms []Anomaly, m Metric) *TableData {
	columns := []Column{
		{Key: "date", Label: "Date", Type: "date", Align: "left"},
		{Key: "employee", Label: "Employee", Type: "text", Align: "left"},
		{Key: "store", Label: "Store", Type: "text", Align: "left"},
		{Key: "metricValue", Label: m.Label(), Type: "number", Align: "right"},
		{Key: "employeeAverage", Label: "Employee Avg.", Type: "number", Align: "right"},
		{Key: "deviationPercent", Label: "Deviation", Type: "number", Align: "right"},
		{Key: "type", Label: "Type", Type: "text", Align: "center"},
	}

	out := make([][]string, 0, len(anoms))
	spikes := 0
	for _, a := range anoms {
		out = append(out, []string{
			a.Date,
			a.Employee,
			a.Store,
			fmt2(a.MetricValue),
			fmt2(a.EmployeeAverage),
			fmt.Sprintf("%+.1f%%", a.DeviationPercent),
			string(a.Kind),
		})
		if a.Kind == Spike {
			spikes++
		}
	}

	return &TableData{
		Title:   fmt.Sprintf("%s Anomalies", m.Label()),
		Columns: columns,
		Rows:    out,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d anomalies)", len(anoms)),
			Values: map[string]string{
				"spikes": strconv.Itoa(spikes),
				"dips":   strconv.Itoa(len(anoms) - spikes),
			},
		},
	}
}
