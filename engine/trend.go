package engine

import (
	"sort"
)

// ============================================================================
// TREND — Time series with peak / lowest / spike / dip annotations
// ============================================================================

// StdDevThreshold is the fixed band width, in standard deviations, outside
// which a trend point is a spike or a dip.
const StdDevThreshold = 1.5

// minTrendPoints is the shortest series that gets extrema detection.
const minTrendPoints = 3

// TrendMode selects how a single employee's trend is built.
type TrendMode string

const (
	TrendMonthly TrendMode = "monthly"
	TrendByStore TrendMode = "store"
	TrendOverall TrendMode = "overall"
)

// BuildTrend builds the series for employee ("all" for everyone) and runs
// extrema detection on it. Everyone, or a single employee in monthly mode,
// is bucketed by YYYY-MM; a single employee in store mode uses the raw
// records sorted by date.
func BuildTrend(records []EmployeeRecord, m Metric, employee string, mode TrendMode) Trend {
	source := records
	viewMode := mode
	if isAll(employee) {
		viewMode = TrendOverall
	} else {
		source = make([]EmployeeRecord, 0, len(records))
		for _, r := range records {
			if r.Employee == employee {
				source = append(source, r)
			}
		}
		if viewMode != TrendByStore {
			viewMode = TrendMonthly
		}
	}

	var points []TrendPoint
	if viewMode == TrendByStore {
		points = recordSeries(source, m)
	} else {
		points = monthlySeries(source, m)
	}

	t := DetectExtremes(points)
	t.Mode = viewMode
	return t
}

// monthlySeries averages m per YYYY-MM bucket, ascending by bucket.
func monthlySeries(records []EmployeeRecord, m Metric) []TrendPoint {
	type bucket struct {
		total float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, r := range records {
		month := r.Date
		if len(month) > 7 {
			month = month[:7]
		}
		b, ok := buckets[month]
		if !ok {
			b = &bucket{}
			buckets[month] = b
		}
		b.total += GetMetric(r, m)
		b.count++
	}

	points := make([]TrendPoint, 0, len(buckets))
	for month, b := range buckets {
		points = append(points, TrendPoint{Label: month, Value: b.total / float64(b.count)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	return points
}

// recordSeries turns records into points sorted ascending by date.
func recordSeries(records []EmployeeRecord, m Metric) []TrendPoint {
	sorted := SortRecords(records, SortState{Key: string(DimDate), Order: Ascending})
	points := make([]TrendPoint, 0, len(sorted))
	for _, r := range sorted {
		points = append(points, TrendPoint{Label: r.Date, Value: GetMetric(r, m), Store: r.Store})
	}
	return points
}

// DetectExtremes annotates a series. Fewer than three points get no
// annotations. The peak and lowest are the first global max and min; every
// other point above mean+1.5σ is a spike and below mean-1.5σ a dip.
// The input slice is not modified.
func DetectExtremes(series []TrendPoint) Trend {
	points := make([]TrendPoint, len(series))
	copy(points, series)

	t := Trend{Points: points, Peak: -1, Lowest: -1, Spikes: []int{}, Dips: []int{}}
	if len(points) < minTrendPoints {
		return t
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	t.Mean, t.StdDev = populationStats(values)
	t.UpperThreshold = t.Mean + StdDevThreshold*t.StdDev
	t.LowerThreshold = t.Mean - StdDevThreshold*t.StdDev

	for i, v := range values {
		if t.Peak < 0 || v > values[t.Peak] {
			t.Peak = i
		}
		if t.Lowest < 0 || v < values[t.Lowest] {
			t.Lowest = i
		}
	}

	for i, v := range values {
		var notes []Annotation
		if i == t.Peak {
			notes = append(notes, AnnotationPeak)
		}
		if i == t.Lowest {
			notes = append(notes, AnnotationLowest)
		}
		if v > t.UpperThreshold && i != t.Peak {
			t.Spikes = append(t.Spikes, i)
			notes = append(notes, AnnotationSpike)
		}
		if v < t.LowerThreshold && i != t.Lowest {
			t.Dips = append(t.Dips, i)
			notes = append(notes, AnnotationDip)
		}
		points[i].Annotations = notes
	}
	return t
}
