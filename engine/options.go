package engine

import (
	"time"

	"github.com/badgerinventory/perfdash/accounts"
	"go.uber.org/zap"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Compute() and ApplyFilters()
// ============================================================================

// AccountMatcher expands an account selection into a membership test.
// *accounts.Resolver satisfies it.
type AccountMatcher interface {
	Matcher(accountName string) func(account string) bool
}

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Now      func() time.Time
	Resolver AccountMatcher
	Logger   *zap.Logger
	PageSize int
}

// WithClock fixes "today" for relative timeframes.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithResolver replaces the linked-account resolver.
func WithResolver(r AccountMatcher) Option {
	return func(c *config) {
		if r != nil {
			c.Resolver = r
		}
	}
}

// WithLogger sets the logger used by Compute. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithPageSize sets the raw data table page size.
func WithPageSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.PageSize = n
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Now:      time.Now,
		Resolver: accounts.Default(),
		Logger:   zap.NewNop(),
		PageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
