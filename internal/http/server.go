// Package http provides the HTTP API for perfdash.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/badgerinventory/perfdash/accounts"
	"github.com/badgerinventory/perfdash/engine"
	"github.com/badgerinventory/perfdash/internal/metrics"
	"github.com/badgerinventory/perfdash/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server provides HTTP endpoints for perfdash.
type Server struct {
	echo    *echo.Echo
	session *session.Session
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// View is the opening dashboard state; request bodies override it.
	View     engine.ViewConfig
	PageSize int
	Resolver *accounts.Resolver
	// Now fixes "today" for relative timeframes. Nil uses time.Now.
	Now func() time.Time
}

// NewServer creates a new HTTP server.
func NewServer(sess *session.Session, logger *zap.Logger, cfg *Config, m *metrics.Metrics) (*Server, error) {
	if sess == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8080,
			View: engine.DefaultViewConfig(),
		}
	}
	if cfg.Resolver == nil {
		cfg.Resolver = accounts.Default()
	}
	if m == nil {
		m = metrics.Get()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			duration := time.Since(start)

			m.ObserveRequest(c.Request().Method, c.Path(), c.Response().Status, duration)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return nil
		}
	})

	s := &Server{
		echo:    e,
		session: sess,
		logger:  logger,
		metrics: m,
		config:  cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/session", s.handleSession)
	v1.GET("/options", s.handleOptions)
	v1.POST("/dashboard", s.handleDashboard)
	v1.GET("/accounts/resolve", s.handleResolveAccount)
}

// Echo exposes the underlying router.
func (s *Server) Echo() *echo.Echo { return s.echo }

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// engineOptions are the options every computation runs with.
func (s *Server) engineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithResolver(s.config.Resolver),
		engine.WithLogger(s.logger),
		engine.WithPageSize(s.config.PageSize),
	}
	if s.config.Now != nil {
		opts = append(opts, engine.WithClock(s.config.Now))
	}
	return opts
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, engine.ErrUnknownMetric), errors.Is(err, engine.ErrInvalidFilter):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
