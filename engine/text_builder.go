package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// TEXT BUILDER — Headline KPI cards
// ============================================================================

// BuildKPICards renders KPIs as display tiles. The employee count tile is
// omitted when a single employee is selected.
func BuildKPICards(k KPIs, m Metric, employee string) []KPICard {
	cards := []KPICard{{
		Title: "Avg. " + m.Label(),
		Value: strconv.FormatFloat(k.AverageMetric, 'f', 2, 64),
	}}

	if isAll(employee) {
		cards = append(cards, KPICard{
			Title: "Filtered Employees",
			Value: FormatInt(k.UniqueEmployees),
		})
	}

	cards = append(cards, KPICard{
		Title:    fmt.Sprintf("Top Performer (%s)", m.Label()),
		Value:    k.BestPerformer.Employee,
		Subtitle: fmt.Sprintf("Avg: %.2f", k.BestPerformer.Value),
	})
	return cards
}

// Summarize is a one-line description of a dashboard view.
func Summarize(v *DashboardView) string {
	if v == nil || v.RecordCount == 0 {
		return "No records match the current filters."
	}
	return fmt.Sprintf("%s records for %s employees; avg. %s %.2f; top performer %s (%.2f).",
		FormatInt(v.RecordCount),
		FormatInt(v.KPIs.UniqueEmployees),
		v.Metric.Label(),
		v.KPIs.AverageMetric,
		v.KPIs.BestPerformer.Employee,
		v.KPIs.BestPerformer.Value,
	)
}
