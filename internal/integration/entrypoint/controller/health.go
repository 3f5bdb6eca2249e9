// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheckers holds the probes of each dependency. A nil probe reports the
// dependency as disabled.
type HealthCheckers struct {
	Database     func() bool
	ExternalFeed func() bool
	Redis        func() bool
}

// HealthController handles health check endpoints.
type HealthController struct {
	checkers HealthCheckers
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string `json:"status"`
	Database     string `json:"database"`
	ExternalFeed string `json:"external_feed"`
	Redis        string `json:"redis"`
	Timestamp    string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(checkers HealthCheckers) *HealthController {
	return &HealthController{
		checkers: checkers,
	}
}

// Check handles GET /health requests.
// The API is degraded, not down, while only the external feed is unreachable.
func (h *HealthController) Check(c *gin.Context) {
	response := HealthResponse{
		Status:       "ok",
		Database:     probe(h.checkers.Database),
		ExternalFeed: probe(h.checkers.ExternalFeed),
		Redis:        probe(h.checkers.Redis),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}

	if response.Database != "connected" ||
		response.ExternalFeed == "disconnected" ||
		response.Redis == "disconnected" {
		response.Status = "degraded"
	}

	c.JSON(http.StatusOK, response)
}

func probe(check func() bool) string {
	switch {
	case check == nil:
		return "disabled"
	case check():
		return "connected"
	default:
		return "disconnected"
	}
}
