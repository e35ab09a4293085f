// Package config provides configuration loading for perfdash.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/badgerinventory/perfdash/accounts"
	"github.com/badgerinventory/perfdash/engine"
	"go.uber.org/zap/zapcore"
)

// Config is the complete perfdash configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Logging   LoggingConfig   `koanf:"logging"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Accounts  AccountsConfig  `koanf:"accounts"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DataConfig says where the production export lives.
type DataConfig struct {
	// Source is a file path or an http(s) URL.
	Source  string        `koanf:"source"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
}

// DashboardConfig is the initial view of a fresh dashboard.
type DashboardConfig struct {
	Metric           string  `koanf:"metric"`
	Timeframe        string  `koanf:"timeframe"`
	TopN             int     `koanf:"top_n"`
	ShowTop          bool    `koanf:"show_top"`
	AnomalyThreshold float64 `koanf:"anomaly_threshold"`
	PageSize         int     `koanf:"page_size"`
}

// AccountsConfig optionally replaces the built-in account grouping table.
type AccountsConfig struct {
	Groups map[string][]string `koanf:"groups"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			Source:  "data/EmployeeProductionExport.json",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Dashboard: DashboardConfig{
			Metric:           string(engine.MetricPieces),
			Timeframe:        string(engine.TimeframeLast180),
			TopN:             10,
			ShowTop:          true,
			AnomalyThreshold: engine.DefaultAnomalyThreshold,
			PageSize:         engine.DefaultPageSize,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must not be negative"))
	}
	if c.Data.Source == "" {
		errs = append(errs, errors.New("data.source is required"))
	}
	if c.Data.Timeout < 0 {
		errs = append(errs, errors.New("data.timeout must not be negative"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format %q must be json or console", c.Logging.Format))
	}
	if _, err := engine.ParseMetric(c.Dashboard.Metric); err != nil {
		errs = append(errs, fmt.Errorf("dashboard.metric: %w", err))
	}
	if !engine.Timeframe(c.Dashboard.Timeframe).Valid() {
		errs = append(errs, fmt.Errorf("dashboard.timeframe %q unknown", c.Dashboard.Timeframe))
	}
	if c.Dashboard.TopN < 1 {
		errs = append(errs, errors.New("dashboard.top_n must be at least 1"))
	}
	if c.Dashboard.AnomalyThreshold < 0 {
		errs = append(errs, errors.New("dashboard.anomaly_threshold must not be negative"))
	}
	if c.Dashboard.PageSize < 1 {
		errs = append(errs, errors.New("dashboard.page_size must be at least 1"))
	}
	for name, aliases := range c.Accounts.Groups {
		if len(aliases) == 0 {
			errs = append(errs, fmt.Errorf("accounts.groups.%s has no aliases", name))
		}
	}

	return errors.Join(errs...)
}

// ViewConfig is the dashboard's opening view.
func (d DashboardConfig) ViewConfig() engine.ViewConfig {
	v := engine.DefaultViewConfig()
	if m, err := engine.ParseMetric(d.Metric); err == nil {
		v.Metric = m
	}
	if tf := engine.Timeframe(d.Timeframe); tf.Valid() {
		v.Filters.Timeframe = tf
	}
	v.Filters.TopN = engine.SanitizeTopN(d.TopN)
	v.Filters.ShowTop = d.ShowTop
	threshold := engine.SanitizeThreshold(d.AnomalyThreshold)
	v.AnomalyThreshold = &threshold
	return v
}

// Resolver builds the account resolver, falling back to the built-in table.
func (a AccountsConfig) Resolver() *accounts.Resolver {
	if len(a.Groups) == 0 {
		return accounts.Default()
	}
	return accounts.NewResolver(a.Groups)
}
