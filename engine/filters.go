package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// FILTERS — Dimension equality + timeframe window
// ============================================================================
// Single-pass filter: every predicate is checked against the original record
// in one loop. The result is a fresh slice; the input is never modified.
// ============================================================================

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

// AllValues disables a dimension filter.
const AllValues = "all"

// Timeframe selects the temporal filter mode.
type Timeframe string

const (
	TimeframeAll      Timeframe = "all"
	TimeframeLast7    Timeframe = "last7"
	TimeframeLast30   Timeframe = "last30"
	TimeframeLast180  Timeframe = "last180"
	TimeframeLast365  Timeframe = "last365"
	TimeframeCustom   Timeframe = "custom"
	TimeframeSpecific Timeframe = "specific"
)

// Timeframes lists every supported timeframe in display order.
var Timeframes = []Timeframe{
	TimeframeAll,
	TimeframeLast7,
	TimeframeLast30,
	TimeframeLast180,
	TimeframeLast365,
	TimeframeCustom,
	TimeframeSpecific,
}

// Valid reports whether t is one of Timeframes.
func (t Timeframe) Valid() bool {
	for _, v := range Timeframes {
		if v == t {
			return true
		}
	}
	return false
}

// RelativeDays returns N for one of the declared lastN timeframes. Any
// other key, including an undeclared lastN, has no window.
func (t Timeframe) RelativeDays() (int, bool) {
	s := string(t)
	if !t.Valid() || !strings.HasPrefix(s, "last") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "last"))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FilterState is the user's current selection. Dimension fields equal to
// "all" (or empty) do not constrain the result.
type FilterState struct {
	Office     string `json:"office" koanf:"office"`
	Account    string `json:"account" koanf:"account"`
	Employee   string `json:"employee" koanf:"employee"`
	Store      string `json:"store" koanf:"store"`
	Supervisor string `json:"supervisor" koanf:"supervisor"`

	Timeframe    Timeframe `json:"timeframe" koanf:"timeframe"`
	StartDate    string    `json:"startDate" koanf:"start_date"`
	EndDate      string    `json:"endDate" koanf:"end_date"`
	SpecificDate string    `json:"specificDate" koanf:"specific_date"`

	TopN    int  `json:"topN" koanf:"top_n"`
	ShowTop bool `json:"showTop" koanf:"show_top"`
}

// DefaultFilterState is the selection a fresh dashboard starts with.
func DefaultFilterState() FilterState {
	return FilterState{
		Office:     AllValues,
		Account:    AllValues,
		Employee:   AllValues,
		Store:      AllValues,
		Supervisor: AllValues,
		Timeframe:  TimeframeLast180,
		TopN:       10,
		ShowTop:    true,
	}
}

// Validate reports malformed timeframe input. ApplyFilters tolerates every
// case reported here; Validate exists for callers that want to reject it.
func (f FilterState) Validate() error {
	if f.Timeframe != "" && !f.Timeframe.Valid() {
		return fmt.Errorf("%w: unknown timeframe %q", ErrInvalidFilter, f.Timeframe)
	}
	checks := []struct {
		name, value string
	}{
		{"startDate", f.StartDate},
		{"endDate", f.EndDate},
		{"specificDate", f.SpecificDate},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, c.value); err != nil {
			return fmt.Errorf("%w: %s %q is not YYYY-MM-DD", ErrInvalidFilter, c.name, c.value)
		}
	}
	return nil
}

// ApplyFilters returns the records matching every active predicate.
func ApplyFilters(records []EmployeeRecord, f FilterState, opts ...Option) []EmployeeRecord {
	cfg := applyOptions(opts)
	return applyFilters(records, f, cfg)
}

func applyFilters(records []EmployeeRecord, f FilterState, cfg *config) []EmployeeRecord {
	preds := buildPredicates(f, cfg)
	out := make([]EmployeeRecord, 0, len(records))
	for _, r := range records {
		pass := true
		for _, p := range preds {
			if !p(r) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, r)
		}
	}
	return out
}

type predicate func(EmployeeRecord) bool

func buildPredicates(f FilterState, cfg *config) []predicate {
	var preds []predicate

	if !isAll(f.Office) {
		office := f.Office
		preds = append(preds, func(r EmployeeRecord) bool { return r.Office == office })
	}
	if !isAll(f.Account) {
		match := cfg.Resolver.Matcher(f.Account)
		preds = append(preds, func(r EmployeeRecord) bool { return match(r.Account) })
	}
	if !isAll(f.Employee) {
		employee := f.Employee
		preds = append(preds, func(r EmployeeRecord) bool { return r.Employee == employee })
	}
	if !isAll(f.Store) {
		store := f.Store
		preds = append(preds, func(r EmployeeRecord) bool { return r.Store == store })
	}
	if !isAll(f.Supervisor) {
		supervisor := f.Supervisor
		preds = append(preds, func(r EmployeeRecord) bool { return r.Supervisor == supervisor })
	}

	if p := timeframePredicate(f, cfg.Now()); p != nil {
		preds = append(preds, p)
	}
	return preds
}

// timeframePredicate returns nil when the timeframe does not constrain.
func timeframePredicate(f FilterState, now time.Time) predicate {
	loc := now.Location()

	switch f.Timeframe {
	case TimeframeCustom:
		if f.StartDate == "" || f.EndDate == "" {
			return nil
		}
		start, err := time.ParseInLocation(DateLayout, f.StartDate, loc)
		if err != nil {
			return nil
		}
		end, err := time.ParseInLocation(DateLayout, f.EndDate, loc)
		if err != nil {
			return nil
		}
		// end is inclusive through the last instant of its day
		endExclusive := end.AddDate(0, 0, 1)
		return func(r EmployeeRecord) bool {
			t, ok := parseRecordDate(r.Date, loc)
			return ok && !t.Before(start) && t.Before(endExclusive)
		}

	case TimeframeSpecific:
		if f.SpecificDate == "" {
			return nil
		}
		day := f.SpecificDate
		return func(r EmployeeRecord) bool { return r.Date == day }
	}

	days, ok := f.Timeframe.RelativeDays()
	if !ok {
		return nil
	}
	cutoff := now.AddDate(0, 0, -days)
	return func(r EmployeeRecord) bool {
		t, ok := parseRecordDate(r.Date, loc)
		return ok && !t.Before(cutoff)
	}
}

// parseRecordDate reads a record date as local midnight in loc.
func parseRecordDate(date string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isAll(v string) bool {
	return v == "" || v == AllValues
}
