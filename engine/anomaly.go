package engine

import (
	"math"
)

// ============================================================================
// ANOMALIES — Per-record deviation from the employee's own mean
// ============================================================================
// The detector only runs when one account scope is selected. Baselines mixed
// across unrelated accounts are not meaningful, so "all" yields nothing.
// ============================================================================

// DetectDeviations flags records whose metric deviates from the employee's
// mean by more than threshold percent. Employees whose mean is exactly 0
// produce no anomalies. Results follow record order.
func DetectDeviations(records []EmployeeRecord, m Metric, account string, threshold float64) []Anomaly {
	if isAll(account) || len(records) == 0 {
		return []Anomaly{}
	}
	threshold = SanitizeThreshold(threshold)

	means := make(map[string]float64)
	for _, e := range employeeMeans(records, m) {
		means[e.Employee] = e.Value
	}

	found := make([]Anomaly, 0)
	for _, r := range records {
		mean, ok := means[r.Employee]
		if !ok || mean == 0 {
			continue
		}
		value := GetMetric(r, m)
		deviation := value - mean
		pct := deviation / mean * 100
		if math.Abs(pct) <= threshold {
			continue
		}

		kind := Dip
		if deviation > 0 {
			kind = Spike
		}
		found = append(found, Anomaly{
			Employee:         r.Employee,
			Date:             r.Date,
			Store:            r.Store,
			MetricValue:      value,
			EmployeeAverage:  mean,
			DeviationPercent: pct,
			Kind:             kind,
		})
	}
	return found
}
