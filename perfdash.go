// Package perfdash is an employee production analytics dashboard.
//
// Usage:
//
//	import "github.com/badgerinventory/perfdash/engine"
//
//	view, err := engine.Compute(records, engine.DefaultViewConfig(),
//	    engine.WithResolver(accounts.Default()),
//	)
//
// The dataset package loads and normalizes a production export into
// []engine.EmployeeRecord. The engine filters those records and derives
// KPIs, rankings, trends, weekday averages, anomalies and tables as
// render-ready output. The session package holds one loaded dataset for
// the HTTP server in internal/http and the perfdash CLI.
package perfdash
