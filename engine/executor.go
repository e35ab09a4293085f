package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR — Dashboard controller
// ============================================================================
// Entry point: Compute(base, view, opts...)
//
// Pipeline:
//   1. Validate the view configuration
//   2. Apply filters → fresh slice
//   3. KPIs, ranking, trend, weekday, anomalies, tables
//   4. Dispatch to builders (chart / table / KPI cards)
//   5. Return DashboardView
//
// Compute is a pure function of its inputs and the injected clock.
// Calling it twice with the same arguments yields equal views.
// ============================================================================

// ViewConfig is every user-controlled input of the dashboard.
type ViewConfig struct {
	Filters FilterState `json:"filters"`
	Metric  Metric      `json:"metric"`

	// GroupBy selects the dimension of the group averages table.
	GroupBy   Dimension `json:"groupBy"`
	TrendMode TrendMode `json:"trendMode"`

	// AnomalyThreshold is a percentage; nil means DefaultAnomalyThreshold.
	AnomalyThreshold *float64 `json:"anomalyThreshold,omitempty"`

	AnomalySort  SortState `json:"anomalySort"`
	GroupSort    SortState `json:"groupSort"`
	EmployeeSort SortState `json:"employeeSort"`
	RecordSort   SortState `json:"recordSort"`

	// Page is the 1-based page of the raw data table.
	Page int `json:"page"`
}

// DefaultViewConfig returns the state the dashboard opens with.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		Filters:      DefaultFilterState(),
		Metric:       MetricPieces,
		GroupBy:      DimStore,
		TrendMode:    TrendMonthly,
		AnomalySort:  DefaultAnomalySort(),
		GroupSort:    SortState{Key: "groupName", Order: Ascending},
		EmployeeSort: SortState{Key: "employee", Order: Ascending},
		RecordSort:   DefaultRecordSort(),
		Page:         1,
	}
}

// Threshold returns the effective anomaly threshold.
func (v ViewConfig) Threshold() float64 {
	if v.AnomalyThreshold == nil {
		return DefaultAnomalyThreshold
	}
	return SanitizeThreshold(*v.AnomalyThreshold)
}

var groupableDimensions = map[Dimension]bool{
	DimStore:      true,
	DimSupervisor: true,
	DimEmployee:   true,
	DimOffice:     true,
	DimAccount:    true,
}

var trendModes = map[TrendMode]bool{
	"":           true,
	TrendMonthly: true,
	TrendByStore: true,
	TrendOverall: true,
}

// normalize fills empty fields with defaults and rejects invalid input.
func (v ViewConfig) normalize() (ViewConfig, error) {
	if v.Metric == "" {
		v.Metric = MetricPieces
	}
	if !v.Metric.Valid() {
		return v, fmt.Errorf("%w: %q", ErrUnknownMetric, v.Metric)
	}
	if v.Filters.Timeframe == "" {
		v.Filters.Timeframe = TimeframeAll
	}
	if err := v.Filters.Validate(); err != nil {
		return v, err
	}
	if v.GroupBy == "" {
		v.GroupBy = DimStore
	}
	if !groupableDimensions[v.GroupBy] {
		return v, fmt.Errorf("%w: cannot group by %q", ErrInvalidFilter, v.GroupBy)
	}
	if !trendModes[v.TrendMode] {
		return v, fmt.Errorf("%w: unknown trend mode %q", ErrInvalidFilter, v.TrendMode)
	}
	if v.AnomalySort.Key == "" {
		v.AnomalySort = DefaultAnomalySort()
	}
	if v.RecordSort.Key == "" {
		v.RecordSort = DefaultRecordSort()
	}
	v.Filters.TopN = SanitizeTopN(v.Filters.TopN)
	return v, nil
}

// DashboardView is everything the dashboard renders for one ViewConfig.
type DashboardView struct {
	Metric       Metric      `json:"metric"`
	Filters      FilterState `json:"filters"`
	TotalRecords int         `json:"totalRecords"`
	RecordCount  int         `json:"recordCount"`

	KPIs     KPIs      `json:"kpis"`
	KPICards []KPICard `json:"kpiCards"`

	Ranking         []EmployeeAverage `json:"ranking"`
	ComparisonChart *ChartConfig      `json:"comparisonChart,omitempty"`

	Trend      Trend        `json:"trend"`
	TrendChart *ChartConfig `json:"trendChart,omitempty"`

	DayOfWeek      []DayOfWeekAverage `json:"dayOfWeek"`
	DayOfWeekChart *ChartConfig       `json:"dayOfWeekChart,omitempty"`

	Anomalies        []Anomaly  `json:"anomalies"`
	AnomalyThreshold float64    `json:"anomalyThreshold"`
	AnomalyTable     *TableData `json:"anomalyTable"`

	EmployeeTable *TableData `json:"employeeTable"`
	GroupTable    *TableData `json:"groupTable"`
	RecordTable   *TableData `json:"recordTable"`

	Summary string `json:"summary"`
}

// Compute filters base and derives every dashboard section from the
// filtered records. base is never modified.
//
// Options:
//   - WithClock(now) — fixes "today" for relative timeframes
//   - WithResolver(r) — replaces the linked-account table
//   - WithLogger(l) — logs the pipeline at debug level
//   - WithPageSize(n) — raw data table page size
func Compute(base []EmployeeRecord, view ViewConfig, opts ...Option) (*DashboardView, error) {
	cfg := applyOptions(opts)

	v, err := view.normalize()
	if err != nil {
		return nil, err
	}
	m := v.Metric
	log := cfg.Logger.With(zap.String("metric", string(m)))

	filtered := applyFilters(base, v.Filters, cfg)
	log.Debug("filters applied",
		zap.Int("records", len(base)),
		zap.Int("matched", len(filtered)),
		zap.String("timeframe", string(v.Filters.Timeframe)),
		zap.String("account", v.Filters.Account),
	)

	out := &DashboardView{
		Metric:       m,
		Filters:      v.Filters,
		TotalRecords: len(base),
		RecordCount:  len(filtered),
	}

	// ── KPIs ────────────────────────────────────────────────────────────
	out.KPIs = ComputeKPIs(filtered, m)
	out.KPICards = BuildKPICards(out.KPIs, m, v.Filters.Employee)

	// ── Comparison ──────────────────────────────────────────────────────
	dir := Top
	if !v.Filters.ShowTop {
		dir = Bottom
	}
	out.Ranking = TopN(filtered, m, v.Filters.TopN, dir)
	out.ComparisonChart = BuildComparisonChart(out.Ranking, m, dir)

	// ── Trend ───────────────────────────────────────────────────────────
	out.Trend = BuildTrend(filtered, m, v.Filters.Employee, v.TrendMode)
	out.TrendChart = BuildTrendChart(out.Trend, m)

	// ── Day of week ─────────────────────────────────────────────────────
	out.DayOfWeek = DayOfWeekAverages(filtered, m)
	out.DayOfWeekChart = BuildDayOfWeekChart(out.DayOfWeek, m)

	// ── Anomalies ───────────────────────────────────────────────────────
	out.AnomalyThreshold = v.Threshold()
	out.Anomalies = SortAnomalies(DetectDeviations(filtered, m, v.Filters.Account, out.AnomalyThreshold), v.AnomalySort)
	out.AnomalyTable = BuildAnomalyTable(out.Anomalies, m)

	// ── Tables ──────────────────────────────────────────────────────────
	employees := SortEmployeeSummaries(EmployeeAverages(filtered, m), v.EmployeeSort)
	out.EmployeeTable = BuildEmployeeTable(employees)

	groups := SortGroups(GroupAverages(filtered, v.GroupBy, Metrics), v.GroupSort)
	out.GroupTable = BuildGroupTable(groups, v.GroupBy)

	page, pg := Paginate(SortRecords(filtered, v.RecordSort), v.Page, cfg.PageSize)
	out.RecordTable = BuildRecordTable(page, pg)

	out.Summary = Summarize(out)

	log.Debug("dashboard computed",
		zap.Int("anomalies", len(out.Anomalies)),
		zap.Int("trendPoints", len(out.Trend.Points)),
		zap.Int("employees", out.KPIs.UniqueEmployees),
	)
	return out, nil
}
