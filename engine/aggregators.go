package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
)

// ============================================================================
// AGGREGATORS — Grouping, averages, consistency, rankings
// ============================================================================
// All functions are O(n) over the input plus O(k log k) for any sort over the
// k distinct group keys. Groups keep first-appearance order until sorted.
// ============================================================================

// DefaultPageSize is the raw data table page size.
const DefaultPageSize = 10

// Direction picks the top or bottom of a ranking.
type Direction string

const (
	Top    Direction = "top"
	Bottom Direction = "bottom"
)

// ============================================================================
// GROUPING
// ============================================================================

type recordGroup struct {
	key     string
	records []EmployeeRecord
}

func groupBy(records []EmployeeRecord, dim Dimension) []recordGroup {
	grouped := make(map[string]int)
	groups := make([]recordGroup, 0)

	for _, r := range records {
		key := GetDimension(r, dim)
		idx, exists := grouped[key]
		if !exists {
			idx = len(groups)
			grouped[key] = idx
			groups = append(groups, recordGroup{key: key})
		}
		groups[idx].records = append(groups[idx].records, r)
	}
	return groups
}

// GroupAverages computes, per distinct value of dim, the record count and the
// mean of each requested metric. An empty metrics list means all Metrics.
func GroupAverages(records []EmployeeRecord, dim Dimension, metrics []Metric) []GroupAggregate {
	if len(records) == 0 {
		return []GroupAggregate{}
	}
	if len(metrics) == 0 {
		metrics = Metrics
	}

	groups := groupBy(records, dim)
	out := make([]GroupAggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupAggregate{
			Key:      g.key,
			Count:    len(g.records),
			Averages: averagesOf(g.records, metrics),
		})
	}
	return out
}

// OverallAverages returns the mean of each metric across records.
// ok is false when records is empty.
func OverallAverages(records []EmployeeRecord, metrics []Metric) (avgs map[Metric]float64, ok bool) {
	if len(records) == 0 {
		return nil, false
	}
	if len(metrics) == 0 {
		metrics = Metrics
	}
	return averagesOf(records, metrics), true
}

func averagesOf(records []EmployeeRecord, metrics []Metric) map[Metric]float64 {
	avgs := make(map[Metric]float64, len(metrics))
	for _, m := range metrics {
		avgs[m] = AvgMetric(records, m)
	}
	return avgs
}

// SumMetric sums a metric across records.
func SumMetric(records []EmployeeRecord, m Metric) float64 {
	var total float64
	for _, r := range records {
		total += GetMetric(r, m)
	}
	return total
}

// AvgMetric computes the arithmetic mean of a metric. Empty input yields 0.
func AvgMetric(records []EmployeeRecord, m Metric) float64 {
	if len(records) == 0 {
		return 0
	}
	return SumMetric(records, m) / float64(len(records))
}

// MetricValues extracts one metric from every record, in order.
func MetricValues(records []EmployeeRecord, m Metric) []float64 {
	return lo.Map(records, func(r EmployeeRecord, _ int) float64 { return GetMetric(r, m) })
}

// ============================================================================
// CONSISTENCY
// ============================================================================

// ConsistencyScore turns the coefficient of variation of values into a score
// in [0,100]. Population statistics are used (divide by N).
//
//	no values      → 0
//	one value      → 100
//	mean == 0      → 100 if every value is 0, else 0
//	otherwise      → max(0, 1 - stdDev/|mean|) * 100
func ConsistencyScore(values []float64) float64 {
	switch len(values) {
	case 0:
		return 0
	case 1:
		return 100
	}

	mean, sd := populationStats(values)
	if mean == 0 {
		for _, v := range values {
			if v != 0 {
				return 0
			}
		}
		return 100
	}

	cv := sd / math.Abs(mean)
	return math.Max(0, 1-cv) * 100
}

// populationStats returns mean and population standard deviation.
// Callers guarantee len(values) > 0.
func populationStats(values []float64) (mean, sd float64) {
	data := stats.Float64Data(values)
	mean, err := data.Mean()
	if err != nil {
		return 0, 0
	}
	sd, err = data.StandardDeviationPopulation()
	if err != nil {
		return mean, 0
	}
	return mean, sd
}

// ============================================================================
// PER-EMPLOYEE
// ============================================================================

// employeeMeans averages m per employee, in first-appearance order.
func employeeMeans(records []EmployeeRecord, m Metric) []EmployeeAverage {
	groups := groupBy(records, DimEmployee)
	return lo.Map(groups, func(g recordGroup, _ int) EmployeeAverage {
		return EmployeeAverage{Employee: g.key, Value: AvgMetric(g.records, m)}
	})
}

// EmployeeAverages builds one row per employee with all metric averages and
// the consistency score of the selected metric.
func EmployeeAverages(records []EmployeeRecord, m Metric) []EmployeeSummary {
	if len(records) == 0 {
		return []EmployeeSummary{}
	}
	groups := groupBy(records, DimEmployee)
	out := make([]EmployeeSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, EmployeeSummary{
			Employee:    g.key,
			Count:       len(g.records),
			Averages:    averagesOf(g.records, Metrics),
			Consistency: ConsistencyScore(MetricValues(g.records, m)),
		})
	}
	return out
}

// TopN ranks employees by their mean of m. The ranking is sorted descending
// (stable, so equal averages keep first-appearance order); Bottom reverses
// the sorted ranking before taking the first n.
func TopN(records []EmployeeRecord, m Metric, n int, dir Direction) []EmployeeAverage {
	if len(records) == 0 {
		return []EmployeeAverage{}
	}
	n = SanitizeTopN(n)

	ranked := employeeMeans(records, m)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	if dir == Bottom {
		ranked = lo.Reverse(ranked)
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ============================================================================
// DAY OF WEEK
// ============================================================================

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayOfWeekAverages averages m per weekday, Sunday first. Weekdays with no
// records average 0. Records with unparseable dates are ignored.
func DayOfWeekAverages(records []EmployeeRecord, m Metric) []DayOfWeekAverage {
	if len(records) == 0 {
		return []DayOfWeekAverage{}
	}

	totals := make([]float64, 7)
	counts := make([]int, 7)
	for _, r := range records {
		t, err := time.Parse(DateLayout, r.Date)
		if err != nil {
			continue
		}
		d := int(t.Weekday())
		totals[d] += GetMetric(r, m)
		counts[d]++
	}

	out := make([]DayOfWeekAverage, 7)
	for i := range out {
		out[i] = DayOfWeekAverage{Day: weekdayNames[i], Count: counts[i]}
		if counts[i] > 0 {
			out[i].Value = totals[i] / float64(counts[i])
		}
	}
	return out
}

// ============================================================================
// KPIs
// ============================================================================

// ComputeKPIs returns the headline averages. The best performer is the
// employee with the highest mean; the first one seen wins ties.
func ComputeKPIs(records []EmployeeRecord, m Metric) KPIs {
	k := KPIs{BestPerformer: EmployeeAverage{Employee: "N/A"}}
	if len(records) == 0 {
		return k
	}

	k.AverageMetric = AvgMetric(records, m)
	means := employeeMeans(records, m)
	k.UniqueEmployees = len(means)

	best := math.Inf(-1)
	for _, e := range means {
		if e.Value > best {
			best = e.Value
			k.BestPerformer = e
		}
	}
	return k
}

// ============================================================================
// UNIQUE VALUES
// ============================================================================

// UniqueValuesOf collects the sorted distinct dimension values.
func UniqueValuesOf(records []EmployeeRecord) UniqueValues {
	pick := func(d Dimension) []string {
		vals := lo.Uniq(lo.Map(records, func(r EmployeeRecord, _ int) string { return GetDimension(r, d) }))
		sort.Strings(vals)
		return vals
	}
	return UniqueValues{
		Employees:   pick(DimEmployee),
		Accounts:    pick(DimAccount),
		Offices:     pick(DimOffice),
		Stores:      pick(DimStore),
		Supervisors: pick(DimSupervisor),
	}
}

// ============================================================================
// INPUT SANITIZING
// ============================================================================

// DefaultAnomalyThreshold is the deviation percentage used when unset.
const DefaultAnomalyThreshold = 30.0

// SanitizeTopN floors n at 1.
func SanitizeTopN(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ParseTopN reads a topN input; anything non-numeric becomes 1.
func ParseTopN(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 1
	}
	return SanitizeTopN(n)
}

// SanitizeThreshold floors a deviation threshold at 0 and maps NaN to 0.
func SanitizeThreshold(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// ParseThreshold reads a threshold input; anything non-numeric becomes 0.
func ParseThreshold(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return SanitizeThreshold(v)
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return strconv.Itoa(n)
	}
	return FormatInt(n/1000) + "," + leftPad3(n%1000)
}

func leftPad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
