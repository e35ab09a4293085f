package engine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ============================================================================
// SORTING — Column sorts for tables
// ============================================================================
// Dates sort chronologically, strings by locale collation, numbers
// numerically. All sorts are stable and return a new slice.
// ============================================================================

// SortState is the active sort column and direction of a table.
type SortState struct {
	Key   string    `json:"key"`
	Order SortOrder `json:"order"`
}

// Select applies a header click: the same key toggles the direction, a new
// key starts ascending.
func (s SortState) Select(key string) SortState {
	if s.Key == key {
		if s.Order == Ascending {
			return SortState{Key: key, Order: Descending}
		}
		return SortState{Key: key, Order: Ascending}
	}
	return SortState{Key: key, Order: Ascending}
}

// DefaultAnomalySort orders anomalies newest first.
func DefaultAnomalySort() SortState { return SortState{Key: "date", Order: Descending} }

// DefaultRecordSort orders raw records newest first.
func DefaultRecordSort() SortState { return SortState{Key: "date", Order: Descending} }

// sortValue is either a string, a number, or a date. str always holds the
// raw text.
type sortValue struct {
	kind int // 0 string, 1 number, 2 date
	str  string
	num  float64
	date time.Time
}

func strValue(s string) sortValue { return sortValue{kind: 0, str: s} }
func numValue(v float64) sortValue {
	return sortValue{kind: 1, str: strconv.FormatFloat(v, 'f', -1, 64), num: v}
}
func dateValue(s string) sortValue {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return strValue(s)
	}
	return sortValue{kind: 2, str: s, date: t}
}

// newCollator returns a fresh collator; collators are not safe to share.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

func compareValues(c *collate.Collator, a, b sortValue) int {
	// a parsed date against unparseable text; YYYY-MM-DD orders
	// chronologically as bytes, so this stays consistent with case 2
	if a.kind != b.kind {
		return strings.Compare(a.str, b.str)
	}
	switch a.kind {
	case 1:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case 2:
		return a.date.Compare(b.date)
	}
	return c.CompareString(a.str, b.str)
}

// sortBy stably sorts a copy of items by the value key extracts.
func sortBy[T any](items []T, order SortOrder, key func(T) sortValue) []T {
	out := make([]T, len(items))
	copy(out, items)
	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareValues(c, key(out[i]), key(out[j]))
		if order == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

// SortAnomalies orders anomalies by any field: date, employee, store,
// metricValue, employeeAverage, deviationPercent, type.
func SortAnomalies(anoms []Anomaly, s SortState) []Anomaly {
	return sortBy(anoms, s.Order, func(a Anomaly) sortValue {
		switch s.Key {
		case "employee":
			return strValue(a.Employee)
		case "store":
			return strValue(a.Store)
		case "metricValue":
			return numValue(a.MetricValue)
		case "employeeAverage":
			return numValue(a.EmployeeAverage)
		case "deviationPercent":
			return numValue(a.DeviationPercent)
		case "type", "kind":
			return strValue(string(a.Kind))
		}
		return dateValue(a.Date)
	})
}

// SortRecords orders raw records by a dimension or metric key.
func SortRecords(records []EmployeeRecord, s SortState) []EmployeeRecord {
	return sortBy(records, s.Order, func(r EmployeeRecord) sortValue {
		if m := Metric(s.Key); m.Valid() {
			return numValue(GetMetric(r, m))
		}
		if s.Key == string(DimDate) || s.Key == "" {
			return dateValue(r.Date)
		}
		return strValue(GetDimension(r, Dimension(s.Key)))
	})
}

// SortGroups orders group rows by "groupName" or a metric average.
func SortGroups(rows []GroupAggregate, s SortState) []GroupAggregate {
	return sortBy(rows, s.Order, func(g GroupAggregate) sortValue {
		if m := Metric(s.Key); m.Valid() {
			return numValue(g.Averages[m])
		}
		return strValue(g.Key)
	})
}

// SortEmployeeSummaries orders employee rows by "employee", "consistency",
// or a metric average.
func SortEmployeeSummaries(rows []EmployeeSummary, s SortState) []EmployeeSummary {
	return sortBy(rows, s.Order, func(e EmployeeSummary) sortValue {
		if m := Metric(s.Key); m.Valid() {
			return numValue(e.Averages[m])
		}
		if s.Key == "consistency" {
			return numValue(e.Consistency)
		}
		return strValue(e.Employee)
	})
}

// Paginate returns page (1-based) of records and the page metadata.
// Out-of-range pages clamp to the nearest valid page.
func Paginate[T any](items []T, page, size int) ([]T, Pagination) {
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if page < 1 {
		page = 1
	}
	if pages > 0 && page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return items[start:end], Pagination{Page: page, PageSize: size, TotalPages: pages, TotalRows: total}
}
