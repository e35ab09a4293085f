package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ============================================================================
// EXECUTOR TESTS
// ============================================================================

func allTimeView() ViewConfig {
	v := DefaultViewConfig()
	v.Filters.Timeframe = TimeframeAll
	return v
}

func TestComputeDefaultView(t *testing.T) {
	view, err := Compute(sampleRecords(), allTimeView())
	require.NoError(t, err)

	assert.Equal(t, 7, view.TotalRecords)
	assert.Equal(t, 7, view.RecordCount)
	assert.Equal(t, MetricPieces, view.Metric)
	assert.Equal(t, "Ann Smith", view.KPIs.BestPerformer.Employee)

	require.Len(t, view.KPICards, 3)
	assert.Equal(t, "Avg. Pieces", view.KPICards[0].Title)
	assert.Equal(t, "Filtered Employees", view.KPICards[1].Title)
	assert.Equal(t, "3", view.KPICards[1].Value)
	assert.Equal(t, "Avg: 125.00", view.KPICards[2].Subtitle)

	require.Len(t, view.Ranking, 3)
	require.NotNil(t, view.ComparisonChart)
	assert.Equal(t, "Top 3 Employees by Avg. Pieces", view.ComparisonChart.Title)

	assert.Equal(t, TrendOverall, view.Trend.Mode)
	assert.Len(t, view.Trend.Points, 3)
	require.NotNil(t, view.TrendChart)

	assert.Len(t, view.DayOfWeek, 7)
	assert.NotNil(t, view.DayOfWeekChart)

	// account scope "all" disables deviation detection
	assert.Empty(t, view.Anomalies)
	assert.Equal(t, DefaultAnomalyThreshold, view.AnomalyThreshold)

	assert.Len(t, view.EmployeeTable.Rows, 3)
	assert.Len(t, view.GroupTable.Rows, 4)
	assert.Len(t, view.RecordTable.Rows, 7)
	assert.Equal(t, "2024-03-20", view.RecordTable.Rows[0][0])
}

func TestComputeSingleEmployeeAccountScope(t *testing.T) {
	v := allTimeView()
	v.Filters.Employee = "Ann Smith"
	v.Filters.Account = "kroger"
	v.TrendMode = TrendByStore

	view, err := Compute(sampleRecords(), v)
	require.NoError(t, err)

	assert.Equal(t, 4, view.RecordCount)
	// no employee count tile for a single employee
	require.Len(t, view.KPICards, 2)
	assert.Equal(t, "Top Performer (Pieces)", view.KPICards[1].Title)

	assert.Equal(t, TrendByStore, view.Trend.Mode)
	assert.Len(t, view.Trend.Points, 4)

	require.Len(t, view.Anomalies, 1)
	assert.Equal(t, "2024-03-20", view.Anomalies[0].Date)
	assert.Equal(t, Spike, view.Anomalies[0].Kind)
}

func TestComputeBottomRanking(t *testing.T) {
	v := allTimeView()
	v.Filters.ShowTop = false
	v.Filters.TopN = 2

	view, err := Compute(sampleRecords(), v)
	require.NoError(t, err)
	require.Len(t, view.Ranking, 2)
	assert.Equal(t, "Cy Young", view.Ranking[0].Employee)
	assert.Equal(t, "Bob Jones", view.Ranking[1].Employee)
	assert.Equal(t, "Bottom 2 Employees by Avg. Pieces", view.ComparisonChart.Title)
}

func TestComputeThresholdOverride(t *testing.T) {
	v := allTimeView()
	v.Filters.Account = "kroger"
	zero := 0.0
	v.AnomalyThreshold = &zero

	view, err := Compute(sampleRecords(), v)
	require.NoError(t, err)
	assert.Zero(t, view.AnomalyThreshold)
	assert.Len(t, view.Anomalies, 6)
}

func TestComputeIsIdempotent(t *testing.T) {
	base := sampleRecords()
	v := allTimeView()
	v.Filters.Account = "kroger"
	clock := WithClock(fixedClock("2024-06-30T12:00:00Z"))

	first, err := Compute(base, v, clock)
	require.NoError(t, err)
	second, err := Compute(base, v, clock)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, sampleRecords(), base)
}

func TestComputeEmptyDataset(t *testing.T) {
	view, err := Compute(nil, DefaultViewConfig())
	require.NoError(t, err)

	assert.Zero(t, view.RecordCount)
	assert.Empty(t, view.Ranking)
	assert.Nil(t, view.ComparisonChart)
	assert.Nil(t, view.TrendChart)
	assert.Nil(t, view.DayOfWeekChart)
	assert.Equal(t, "N/A", view.KPIs.BestPerformer.Employee)
	assert.Equal(t, "No records match the current filters.", view.Summary)
}

func TestComputeRejectsInvalidConfig(t *testing.T) {
	v := allTimeView()
	v.Metric = "revenue"
	_, err := Compute(sampleRecords(), v)
	assert.ErrorIs(t, err, ErrUnknownMetric)

	v = allTimeView()
	v.Filters.Timeframe = "yesterday"
	_, err = Compute(sampleRecords(), v)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	v = allTimeView()
	v.GroupBy = DimDate
	_, err = Compute(sampleRecords(), v)
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestComputePaginatesRawRecords(t *testing.T) {
	v := allTimeView()
	v.Page = 2

	view, err := Compute(sampleRecords(), v, WithPageSize(5))
	require.NoError(t, err)
	require.NotNil(t, view.RecordTable.Pagination)
	assert.Equal(t, 2, view.RecordTable.Pagination.Page)
	assert.Equal(t, 2, view.RecordTable.Pagination.TotalPages)
	assert.Len(t, view.RecordTable.Rows, 2)
}

func TestComputeLogsPipeline(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	_, err := Compute(sampleRecords(), allTimeView(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	entries := logs.FilterMessage("filters applied").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7), entries[0].ContextMap()["matched"])
	assert.Equal(t, 1, logs.FilterMessage("dashboard computed").Len())
}
