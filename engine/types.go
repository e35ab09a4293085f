package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// PERFDASH ENGINE TYPES — Employee production analytics
// ============================================================================
// Every engine operation is a pure function over []EmployeeRecord.
// Nothing in this package performs I/O or holds mutable state.
// ============================================================================

var (
	// ErrUnknownMetric is returned when a metric key is not one of Metrics.
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrInvalidFilter is returned by FilterState.Validate.
	ErrInvalidFilter = errors.New("invalid filter")
)

// ============================================================================
// RECORD
// ============================================================================

// EmployeeRecord is one observation for an employee at a store on a day.
// Records are values; the engine never mutates them.
type EmployeeRecord struct {
	Employee   string `json:"employee"`
	Office     string `json:"office"`
	Account    string `json:"account"`
	Store      string `json:"store"`
	Supervisor string `json:"supervisor"`
	Date       string `json:"date"` // YYYY-MM-DD

	Pieces     float64 `json:"pieces"`
	Dollars    float64 `json:"dollars"`
	Skus       float64 `json:"skus"`
	AvgDelta   float64 `json:"avg_delta"`
	Gap5Count  float64 `json:"gap5_count"`
	Gap10Count float64 `json:"gap10_count"`
	Gap15Count float64 `json:"gap15_count"`
}

// ============================================================================
// METRICS
// ============================================================================

// Metric names one of the seven numeric fields of an EmployeeRecord.
type Metric string

const (
	MetricPieces     Metric = "pieces"
	MetricDollars    Metric = "dollars"
	MetricSkus       Metric = "skus"
	MetricAvgDelta   Metric = "avg_delta"
	MetricGap5Count  Metric = "gap5_count"
	MetricGap10Count Metric = "gap10_count"
	MetricGap15Count Metric = "gap15_count"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{
	MetricPieces,
	MetricDollars,
	MetricSkus,
	MetricAvgDelta,
	MetricGap5Count,
	MetricGap10Count,
	MetricGap15Count,
}

var metricLabels = map[Metric]string{
	MetricPieces:     "Pieces",
	MetricDollars:    "Dollars",
	MetricSkus:       "SKUs",
	MetricAvgDelta:   "Average Delta",
	MetricGap5Count:  "Gap > 5",
	MetricGap10Count: "Gap > 10",
	MetricGap15Count: "Gap > 15",
}

// Label returns the display label, or "Metric" for unknown keys.
func (m Metric) Label() string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return "Metric"
}

// Valid reports whether m is one of Metrics.
func (m Metric) Valid() bool {
	_, ok := metricLabels[m]
	return ok
}

// ParseMetric converts external input into a Metric.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// GetMetric reads a metric from a record. Unknown metrics read as 0.
func GetMetric(r EmployeeRecord, m Metric) float64 {
	switch m {
	case MetricPieces:
		return r.Pieces
	case MetricDollars:
		return r.Dollars
	case MetricSkus:
		return r.Skus
	case MetricAvgDelta:
		return r.AvgDelta
	case MetricGap5Count:
		return r.Gap5Count
	case MetricGap10Count:
		return r.Gap10Count
	case MetricGap15Count:
		return r.Gap15Count
	}
	return 0
}

// ============================================================================
// DIMENSIONS
// ============================================================================

// Dimension names one of the string fields of an EmployeeRecord.
type Dimension string

const (
	DimEmployee   Dimension = "employee"
	DimOffice     Dimension = "office"
	DimAccount    Dimension = "account"
	DimStore      Dimension = "store"
	DimSupervisor Dimension = "supervisor"
	DimDate       Dimension = "date"
)

// GetDimension reads a dimension from a record.
func GetDimension(r EmployeeRecord, d Dimension) string {
	switch d {
	case DimEmployee:
		return r.Employee
	case DimOffice:
		return r.Office
	case DimAccount:
		return r.Account
	case DimStore:
		return r.Store
	case DimSupervisor:
		return r.Supervisor
	case DimDate:
		return r.Date
	}
	return ""
}

// Label returns a capitalized label for a dimension.
func (d Dimension) Label() string {
	if len(d) == 0 {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ============================================================================
// AGGREGATES — derived, recomputed from filtered data
// ============================================================================

// GroupAggregate is one row of a per-group averages table.
type GroupAggregate struct {
	Key      string             `json:"key"`
	Count    int                `json:"count"`
	Averages map[Metric]float64 `json:"averages"`
}

// EmployeeAverage is one employee's mean for a single metric.
type EmployeeAverage struct {
	Employee string  `json:"employee"`
	Value    float64 `json:"value"`
}

// EmployeeSummary is a row of the averages-by-employee table.
type EmployeeSummary struct {
	Employee    string             `json:"employee"`
	Count       int                `json:"count"`
	Averages    map[Metric]float64 `json:"averages"`
	Consistency float64            `json:"consistency"`
}

// DayOfWeekAverage is the mean of a metric for one weekday.
type DayOfWeekAverage struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// KPIs are the headline numbers shown above the charts.
type KPIs struct {
	AverageMetric   float64         `json:"averageMetric"`
	UniqueEmployees int             `json:"uniqueEmployees"`
	BestPerformer   EmployeeAverage `json:"bestPerformer"`
}

// UniqueValues holds the sorted distinct values used by selection controls.
type UniqueValues struct {
	Employees   []string `json:"employees"`
	Accounts    []string `json:"accounts"`
	Offices     []string `json:"offices"`
	Stores      []string `json:"stores"`
	Supervisors []string `json:"supervisors"`
}

// ============================================================================
// ANOMALIES
// ============================================================================

// AnomalyKind says whether a value sits above or below the baseline.
type AnomalyKind string

const (
	Spike AnomalyKind = "Spike"
	Dip   AnomalyKind = "Dip"
)

// Anomaly is a record whose metric deviates from its employee's mean.
type Anomaly struct {
	Employee         string      `json:"employee"`
	Date             string      `json:"date"`
	Store            string      `json:"store"`
	MetricValue      float64     `json:"metricValue"`
	EmployeeAverage  float64     `json:"employeeAverage"`
	DeviationPercent float64     `json:"deviationPercent"`
	Kind             AnomalyKind `json:"type"`
}

// ============================================================================
// TREND
// ============================================================================

// Annotation marks a notable point on a trend series.
type Annotation string

const (
	AnnotationPeak   Annotation = "Peak"
	AnnotationLowest Annotation = "Lowest"
	AnnotationSpike  Annotation = "Spike"
	AnnotationDip    Annotation = "Dip"
)

// TrendPoint is one bucketed or raw observation in a time-ordered series.
type TrendPoint struct {
	Label       string       `json:"date"` // YYYY-MM bucket or YYYY-MM-DD
	Value       float64      `json:"value"`
	Store       string       `json:"store,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Trend is a series plus its detected extrema. Indexes are -1 when absent.
type Trend struct {
	Mode   TrendMode    `json:"mode"`
	Points []TrendPoint `json:"points"`
	Peak   int          `json:"peak"`
	Lowest int          `json:"lowest"`
	Spikes []int        `json:"spikes"`
	Dips   []int        `json:"dips"`

	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"stdDev"`
	UpperThreshold float64 `json:"upperThreshold"`
	LowerThreshold float64 `json:"lowerThreshold"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label       string       `json:"label"`
	Value       float64      `json:"value"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title      string      `json:"title"`
	Columns    []Column    `json:"columns"`
	Rows       [][]string  `json:"rows"`
	Summary    *Summary    `json:"summary,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "date"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals or aggregations for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// Pagination describes which slice of a longer table is shown.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalRows  int `json:"totalRows"`
}

// ============================================================================
// KPI CARDS
// ============================================================================

// KPICard is one headline tile.
type KPICard struct {
	Title    string `json:"title"`
	Value    string `json:"value"`
	Subtitle string `json:"subtitle,omitempty"`
}
