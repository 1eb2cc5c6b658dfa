package http

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/render"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var startTime = time.Now()

// HealthHandler serves liveness and version endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":  "healthy",
		"uptime":  time.Since(startTime).String(),
		"version": Version,
	})
}

// VersionInfo handles GET /api/version
func (h *HealthHandler) VersionInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"version":    Version,
		"go_version": runtime.Version(),
	})
}
