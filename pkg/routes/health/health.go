// Package health provides liveness and readiness endpoints.
package health

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/formstore"
	"github.com/Ramsey-B/clover/internal/repositories/webhookconfig"
)

// Checker handles health check endpoints.
type Checker struct {
	store     *formstore.Repository
	configs   *webhookconfig.Repository
	version   string
	startTime time.Time
	ready     atomic.Bool
}

// NewChecker creates a new health checker.
func NewChecker(store *formstore.Repository, configs *webhookconfig.Repository, version string) *Checker {
	return &Checker{
		store:     store,
		configs:   configs,
		version:   version,
		startTime: time.Now(),
	}
}

// SetReady sets the readiness state.
func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

// RegisterRoutes registers health check endpoints.
func (c *Checker) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", c.Health)
	e.GET("/health/live", c.Live)
	e.GET("/health/ready", c.Ready)
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status     string                  `json:"status"`
	Version    string                  `json:"version"`
	Uptime     string                  `json:"uptime"`
	Checks     map[string]*CheckResult `json:"checks"`
	ReportedAt time.Time               `json:"reported_at"`
}

// CheckResult represents an individual check result.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health returns the overall health status.
func (c *Checker) Health(ctx echo.Context) error {
	status := &HealthStatus{
		Status:     "healthy",
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
		Checks:     make(map[string]*CheckResult),
		ReportedAt: time.Now(),
	}

	// Check form storage
	if c.store != nil {
		start := time.Now()
		err := c.store.EnsureDirs()
		latency := time.Since(start)

		if err != nil {
			status.Status = "unhealthy"
			status.Checks["form_storage"] = &CheckResult{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Checks["form_storage"] = &CheckResult{
				Status:  "healthy",
				Latency: latency.String(),
			}
		}
	} else {
		status.Status = "unhealthy"
		status.Checks["form_storage"] = &CheckResult{
			Status:  "unhealthy",
			Message: "form storage not configured",
		}
	}

	// Check webhook configuration
	if c.configs != nil {
		cfg := c.configs.Load()
		result := &CheckResult{Status: "healthy"}
		switch {
		case !cfg.Enabled:
			result.Message = "webhook disabled"
		case !cfg.Configured():
			result.Message = "webhook enabled but URL not configured"
		}
		status.Checks["webhook_config"] = result
	}

	httpStatus := http.StatusOK
	if status.Status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	return ctx.JSON(httpStatus, status)
}

// Live returns the liveness status (is the service running).
func (c *Checker) Live(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

// Ready returns the readiness status (is the service ready to accept traffic).
func (c *Checker) Ready(ctx echo.Context) error {
	if c.ready.Load() {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ready"})
	}
	return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
}
