package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/plotpilot/api/internal/middleware"
	"github.com/stwalsh4118/plotpilot/api/internal/models"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout bounds the store ping in the readiness check
	HealthCheckTimeout = 2 * time.Second
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatasetSource reports whether the base dataset has been loaded.
type DatasetSource interface {
	Snapshot() (*models.Dataset, bool)
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	store     Pinger
	data      DatasetSource
	startTime time.Time
	env       string
	driver    string
}

// NewHealthHandler creates a new HealthHandler instance. driver names the
// key-value store backing store.
func NewHealthHandler(store Pinger, data DatasetSource, env, driver string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		data:      data,
		startTime: time.Now(),
		env:       env,
		driver:    driver,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Data   string `json:"data"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
	Store       string `json:"store"`
	Plots       int    `json:"plots"`
	Sections    int    `json:"sections"`
	Blocks      int    `json:"blocks"`
}

// Health handles GET /health. It never checks dependencies.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy"})
}

// Ready handles GET /health/ready. It answers 503 until the store responds
// and the base dataset has been loaded.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Store: "connected", Data: "loaded"}
	log := middleware.GetLogger(c)

	if err := h.store.Ping(ctx); err != nil {
		if log != nil {
			log.Error("Store health check failed", err, map[string]interface{}{
				"driver":  h.driver,
				"timeout": HealthCheckTimeout.String(),
			})
		}
		resp.Status, resp.Store = "not_ready", "disconnected"
	}
	if _, ok := h.data.Snapshot(); !ok {
		if log != nil {
			log.Warn("Plot data not loaded", nil)
		}
		resp.Status, resp.Data = "not_ready", "not_loaded"
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// Info handles GET /api/v1/info.
func (h *HealthHandler) Info(c *gin.Context) {
	resp := InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(time.Since(h.startTime)),
		Store:       h.driver,
	}
	if ds, ok := h.data.Snapshot(); ok {
		resp.Plots = len(ds.Plots.Features)
		resp.Sections = len(ds.Sections.Features)
		resp.Blocks = len(ds.Blocks.Features)
	}
	c.JSON(http.StatusOK, resp)
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
