package engine

import "fmt"

// ============================================================================
// CHART BUILDER — Produces ChartConfig from aggregates
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildComparisonChart renders a top/bottom-N ranking as a bar chart.
func BuildComparisonChart(ranking []EmployeeAverage, m Metric, dir Direction) *ChartConfig {
	if len(ranking) == 0 {
		return nil
	}

	word := "Top"
	if dir == Bottom {
		word = "Bottom"
	}

	points := make([]ChartPoint, 0, len(ranking))
	for _, e := range ranking {
		points = append(points, ChartPoint{Label: e.Employee, Value: RoundTo2(e.Value)})
	}

	return &ChartConfig{
		ChartType:  "bar",
		Title:      fmt.Sprintf("%s %d Employees by Avg. %s", word, len(ranking), m.Label()),
		XAxis:      "Employee",
		YAxis:      "Avg. " + m.Label(),
		Series:     []ChartSeries{{Name: "Avg. " + m.Label(), Data: points}},
		Colors:     assignColors(1),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// BuildTrendChart renders a trend as a line chart with annotated points.
func BuildTrendChart(t Trend, m Metric) *ChartConfig {
	if len(t.Points) == 0 {
		return nil
	}

	xAxis := "Month"
	if t.Mode == TrendByStore {
		xAxis = "Date"
	}

	points := make([]ChartPoint, 0, len(t.Points))
	for _, p := range t.Points {
		label := p.Label
		if p.Store != "" {
			label = fmt.Sprintf("%s (%s)", p.Label, p.Store)
		}
		points = append(points, ChartPoint{Label: label, Value: RoundTo2(p.Value), Annotations: p.Annotations})
	}

	return &ChartConfig{
		ChartType:  "line",
		Title:      fmt.Sprintf("%s Trend", m.Label()),
		XAxis:      xAxis,
		YAxis:      m.Label(),
		Series:     []ChartSeries{{Name: m.Label(), Data: points}},
		Colors:     assignColors(1),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// BuildDayOfWeekChart renders weekday averages. It returns nil when every
// weekday averages 0.
func BuildDayOfWeekChart(days []DayOfWeekAverage, m Metric) *ChartConfig {
	allZero := true
	points := make([]ChartPoint, 0, len(days))
	for _, d := range days {
		if d.Value != 0 {
			allZero = false
		}
		points = append(points, ChartPoint{Label: d.Day, Value: RoundTo2(d.Value)})
	}
	if len(days) == 0 || allZero {
		return nil
	}

	return &ChartConfig{
		ChartType:  "bar",
		Title:      fmt.Sprintf("Avg. %s by Day of Week", m.Label()),
		XAxis:      "Day",
		YAxis:      "Avg. " + m.Label(),
		Series:     []ChartSeries{{Name: "Avg. " + m.Label(), Data: points}},
		Colors:     assignColors(1),
		ShowLegend: true,
		ShowGrid:   true,
	}
}

func assignColors(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
