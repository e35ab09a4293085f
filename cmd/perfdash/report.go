package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/badgerinventory/perfdash/dataset"
	"github.com/badgerinventory/perfdash/engine"
	"github.com/badgerinventory/perfdash/internal/config"
	"github.com/badgerinventory/perfdash/internal/logging"
	"github.com/badgerinventory/perfdash/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render one dashboard view from the export",
	Long: `Load the export, apply filters and render a dashboard view.

Views:
  dashboard   every section (default)
  kpis        headline KPI cards
  comparison  top/bottom N employees
  trend       metric over time with annotations
  dayofweek   average by day of week
  anomaly     records deviating from the employee's average
  employees   averages by employee
  groups      averages by --group-by dimension
  raw         one page of raw records

Formats:
  json      compact JSON (default)
  pretty    indented JSON
  text      one-line summary
  csv       chart or table data (not for dashboard or kpis)
  xlsx      workbook, one sheet per chart or table

Examples:
  # Bottom 5 by dollars for the last 30 days, as CSV
  perfdash report --view comparison --metric dollars --timeframe last30 --top 5 --bottom --format csv

  # Every section for Kroger stores as a workbook
  perfdash report --account kroger --format xlsx --out kroger.xlsx`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

// reportFlags holds every report option; zero values mean "use config".
type reportFlags struct {
	source string
	view   string
	format string
	out    string
	today  string

	metric     string
	timeframe  string
	startDate  string
	endDate    string
	date       string
	office     string
	account    string
	employee   string
	store      string
	supervisor string

	top       int
	bottom    bool
	groupBy   string
	trendMode string
	threshold float64
	page      int
}

var report reportFlags

func init() {
	f := reportCmd.Flags()
	f.StringVar(&report.source, "source", "", "export file or URL (overrides data.source)")
	f.StringVar(&report.view, "view", "dashboard", "view to render")
	f.StringVar(&report.format, "format", "json", "output format: json, pretty, text, csv, xlsx")
	f.StringVarP(&report.out, "out", "o", "", "write output to file instead of stdout")
	f.StringVar(&report.today, "today", "", "treat this YYYY-MM-DD as today for relative timeframes")

	f.StringVar(&report.metric, "metric", "", "pieces, dollars, skus, avg_delta, gap5_count, gap10_count or gap15_count")
	f.StringVar(&report.timeframe, "timeframe", "", "all, last7, last30, last180, last365, custom or specific")
	f.StringVar(&report.startDate, "start", "", "custom range start (YYYY-MM-DD)")
	f.StringVar(&report.endDate, "end", "", "custom range end (YYYY-MM-DD)")
	f.StringVar(&report.date, "date", "", "specific date (YYYY-MM-DD)")
	f.StringVar(&report.office, "office", "", "office filter")
	f.StringVar(&report.account, "account", "", "account filter, linked accounts included")
	f.StringVar(&report.employee, "employee", "", "employee filter")
	f.StringVar(&report.store, "store", "", "store filter")
	f.StringVar(&report.supervisor, "supervisor", "", "supervisor filter")

	f.IntVar(&report.top, "top", 0, "number of employees in the comparison")
	f.BoolVar(&report.bottom, "bottom", false, "rank the lowest performers instead of the highest")
	f.StringVar(&report.groupBy, "group-by", "", "groups view dimension: store, supervisor, employee, office or account")
	f.StringVar(&report.trendMode, "trend-mode", "", "single employee trend: monthly or store")
	f.Float64Var(&report.threshold, "threshold", -1, "anomaly threshold in percent")
	f.IntVar(&report.page, "page", 0, "records view page")
}

// applyTo overlays the flags that were set onto the configured view.
func (r reportFlags) applyTo(v engine.ViewConfig) engine.ViewConfig {
	set := func(dst *string, val string) {
		if val != "" {
			*dst = val
		}
	}
	if r.metric != "" {
		v.Metric = engine.Metric(r.metric)
	}
	if r.timeframe != "" {
		v.Filters.Timeframe = engine.Timeframe(r.timeframe)
	}
	set(&v.Filters.StartDate, r.startDate)
	set(&v.Filters.EndDate, r.endDate)
	set(&v.Filters.SpecificDate, r.date)
	set(&v.Filters.Office, r.office)
	set(&v.Filters.Account, r.account)
	set(&v.Filters.Employee, r.employee)
	set(&v.Filters.Store, r.store)
	set(&v.Filters.Supervisor, r.supervisor)

	if r.top > 0 {
		v.Filters.TopN = r.top
	}
	if r.bottom {
		v.Filters.ShowTop = false
	}
	if r.groupBy != "" {
		v.GroupBy = engine.Dimension(r.groupBy)
	}
	if r.trendMode != "" {
		v.TrendMode = engine.TrendMode(r.trendMode)
	}
	if r.threshold >= 0 {
		t := r.threshold
		v.AnomalyThreshold = &t
	}
	if r.page > 0 {
		v.Page = r.page
	}
	return v
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if report.source != "" {
		cfg.Data.Source = report.source
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	opts := []engine.Option{
		engine.WithResolver(cfg.Accounts.Resolver()),
		engine.WithLogger(logger),
		engine.WithPageSize(cfg.Dashboard.PageSize),
	}
	if report.today != "" {
		today, err := time.ParseInLocation(engine.DateLayout, report.today, time.Local)
		if err != nil {
			return fmt.Errorf("--today %q is not YYYY-MM-DD", report.today)
		}
		opts = append(opts, engine.WithClock(func() time.Time { return today }))
	}

	sess := session.New(session.WithLogger(logger))
	timeout := loadTimeout(cfg.Data)
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	if err := sess.Load(ctx, dataset.NewSource(cfg.Data.Source, timeout)); err != nil {
		return err
	}

	dv, err := sess.Compute(report.applyTo(cfg.Dashboard.ViewConfig()), opts...)
	if err != nil {
		return err
	}
	logger.Debug("report computed", zap.String("view", report.view), zap.Int("records", dv.RecordCount))

	var w io.Writer = cmd.OutOrStdout()
	if report.out != "" {
		f, err := os.Create(report.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return render(w, dv, report.view, report.format)
}
