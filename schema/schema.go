// Package schema describes the production dataset for selection controls
// and API clients.
package schema

import (
	"github.com/badgerinventory/perfdash/engine"
)

// ============================================================================
// SCHEMA — Describes the shape of the production dataset
// ============================================================================
// The dataset shape is fixed. Sample values come from the loaded session so
// clients can populate dropdowns without a second request.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
	Timeframes []TimeframeMeta `json:"timeframes"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key            string   `json:"key"`
	DisplayName    string   `json:"displayName"`
	Values         []string `json:"values"`
	Groupable      bool     `json:"groupable"`
	Filterable     bool     `json:"filterable"`
	IsTemporal     bool     `json:"isTemporal,omitempty"`
	TemporalFormat string   `json:"temporalFormat,omitempty"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key                string `json:"key"`
	DisplayName        string `json:"displayName"`
	Unit               string `json:"unit,omitempty"` // "per hour", "count", "delta"
	DefaultAggregation string `json:"defaultAggregation"`
	Format             string `json:"format,omitempty"`
}

// TimeframeMeta describes one timeframe option.
type TimeframeMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	// Requires lists the FilterState fields the timeframe reads.
	Requires []string `json:"requires,omitempty"`
}

var measureUnits = map[engine.Metric]string{
	engine.MetricPieces:     "per hour",
	engine.MetricDollars:    "per hour",
	engine.MetricSkus:       "per hour",
	engine.MetricAvgDelta:   "delta",
	engine.MetricGap5Count:  "count",
	engine.MetricGap10Count: "count",
	engine.MetricGap15Count: "count",
}

var timeframeLabels = map[engine.Timeframe]string{
	engine.TimeframeAll:      "All Time",
	engine.TimeframeLast7:    "Last 7 Days",
	engine.TimeframeLast30:   "Last 30 Days",
	engine.TimeframeLast180:  "Last 6 Months",
	engine.TimeframeLast365:  "Last Year",
	engine.TimeframeCustom:   "Custom Range",
	engine.TimeframeSpecific: "Specific Date",
}

// Production returns the dataset description with values taken from u.
func Production(u engine.UniqueValues) Config {
	dim := func(d engine.Dimension, values []string, groupable bool) DimensionMeta {
		if values == nil {
			values = []string{}
		}
		return DimensionMeta{
			Key:         string(d),
			DisplayName: d.Label(),
			Values:      values,
			Groupable:   groupable,
			Filterable:  true,
		}
	}

	cfg := Config{
		Name:        "employee_production",
		Description: "Per-employee hourly production by store and day",
		Dimensions: []DimensionMeta{
			dim(engine.DimEmployee, u.Employees, true),
			dim(engine.DimOffice, u.Offices, true),
			dim(engine.DimAccount, u.Accounts, true),
			dim(engine.DimStore, u.Stores, true),
			dim(engine.DimSupervisor, u.Supervisors, true),
			{
				Key:            string(engine.DimDate),
				DisplayName:    engine.DimDate.Label(),
				Values:         []string{},
				Filterable:     true,
				IsTemporal:     true,
				TemporalFormat: "YYYY-MM-DD",
			},
		},
	}

	for _, m := range engine.Metrics {
		cfg.Measures = append(cfg.Measures, MeasureMeta{
			Key:                string(m),
			DisplayName:        m.Label(),
			Unit:               measureUnits[m],
			DefaultAggregation: "avg",
			Format:             "#,##0.00",
		})
	}

	for _, tf := range engine.Timeframes {
		meta := TimeframeMeta{Key: string(tf), DisplayName: timeframeLabels[tf]}
		switch tf {
		case engine.TimeframeCustom:
			meta.Requires = []string{"startDate", "endDate"}
		case engine.TimeframeSpecific:
			meta.Requires = []string{"specificDate"}
		}
		cfg.Timeframes = append(cfg.Timeframes, meta)
	}
	return cfg
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Dimension looks up a dimension by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}
