package schema

import (
	"testing"

	"github.com/badgerinventory/perfdash/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionSchema(t *testing.T) {
	cfg := Production(engine.UniqueValues{
		Employees: []string{"Ann Smith", "Bob Jones"},
		Stores:    []string{"K-101"},
	})

	assert.Equal(t, []string{"employee", "office", "account", "store", "supervisor", "date"}, cfg.DimensionKeys())
	assert.Equal(t, []string{"pieces", "dollars", "skus", "avg_delta", "gap5_count", "gap10_count", "gap15_count"}, cfg.MeasureKeys())

	emp, ok := cfg.Dimension("employee")
	require.True(t, ok)
	assert.Equal(t, []string{"Ann Smith", "Bob Jones"}, emp.Values)
	assert.Equal(t, "Employee", emp.DisplayName)

	office, ok := cfg.Dimension("office")
	require.True(t, ok)
	assert.NotNil(t, office.Values)
	assert.Empty(t, office.Values)

	date, ok := cfg.Dimension("date")
	require.True(t, ok)
	assert.True(t, date.IsTemporal)
	assert.False(t, date.Groupable)

	_, ok = cfg.Dimension("region")
	assert.False(t, ok)
}

func TestProductionMeasuresAndTimeframes(t *testing.T) {
	cfg := Production(engine.UniqueValues{})

	require.Len(t, cfg.Measures, len(engine.Metrics))
	assert.Equal(t, "Gap > 5", cfg.Measures[4].DisplayName)
	assert.Equal(t, "count", cfg.Measures[4].Unit)
	assert.Equal(t, "per hour", cfg.Measures[0].Unit)

	require.Len(t, cfg.Timeframes, len(engine.Timeframes))
	for _, tf := range cfg.Timeframes {
		assert.NotEmpty(t, tf.DisplayName, tf.Key)
	}
	assert.Equal(t, []string{"startDate", "endDate"}, cfg.Timeframes[5].Requires)
}
