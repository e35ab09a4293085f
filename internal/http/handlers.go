package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/badgerinventory/perfdash/engine"
	"github.com/badgerinventory/perfdash/schema"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// OptionsResponse is the response body for GET /api/v1/options.
type OptionsResponse struct {
	Schema   schema.Config       `json:"schema"`
	Values   engine.UniqueValues `json:"values"`
	Defaults engine.ViewConfig   `json:"defaults"`
}

// ResolveResponse is the response body for GET /api/v1/accounts/resolve.
type ResolveResponse struct {
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Aliases []string `json:"aliases"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleSession reports the load state of the dataset.
func (s *Server) handleSession(c echo.Context) error {
	return c.JSON(http.StatusOK, s.session.Status())
}

// handleOptions returns the values that populate selection controls.
func (s *Server) handleOptions(c echo.Context) error {
	values, err := s.session.UniqueValues()
	if err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}
	return c.JSON(http.StatusOK, OptionsResponse{
		Schema:   schema.Production(values),
		Values:   values,
		Defaults: s.defaultView(),
	})
}

// handleDashboard computes the dashboard for the posted view. Fields absent
// from the body keep their configured defaults.
func (s *Server) handleDashboard(c echo.Context) error {
	view := s.defaultView()
	if err := c.Bind(&view); err != nil {
		s.logger.Warn("invalid dashboard request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	start := time.Now()
	result, err := s.session.Compute(view, s.engineOptions()...)
	if err != nil {
		return echo.NewHTTPError(statusFor(err), err.Error())
	}

	spikes := 0
	for _, a := range result.Anomalies {
		if a.Kind == engine.Spike {
			spikes++
		}
	}
	s.metrics.ObserveCompute(time.Since(start), spikes, len(result.Anomalies)-spikes)

	return c.JSON(http.StatusOK, result)
}

// handleResolveAccount lists the aliases linked to an account.
func (s *Server) handleResolveAccount(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name query parameter is required")
	}
	return c.JSON(http.StatusOK, ResolveResponse{
		Name:    name,
		Group:   s.config.Resolver.Group(name),
		Aliases: s.config.Resolver.Resolve(name),
	})
}

// defaultView copies the configured opening view.
func (s *Server) defaultView() engine.ViewConfig {
	v := s.config.View
	if v.AnomalyThreshold != nil {
		t := *v.AnomalyThreshold
		v.AnomalyThreshold = &t
	}
	return v
}
