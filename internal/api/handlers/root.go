package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portify.io/server/internal/apperror"
	"portify.io/server/internal/config"
)

// Service identity advertised by the root endpoint.
const (
	ServiceName       = "Portify API"
	ServiceStatus     = "running"
	APIVersion        = "v1"
	DocumentationPath = "/docs"
	HealthPath        = "/health"
)

// StatusResponse is the body of GET /.
//
// Timestamp, Environment and Port are only filled in development mode.
type StatusResponse struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	Version       string `json:"version"`
	Documentation string `json:"documentation"`
	Health        string `json:"health"`

	Timestamp   string `json:"timestamp,omitempty"`
	Environment string `json:"environment,omitempty"`
	Port        int    `json:"port,omitempty"`
}

// StatusHandler serves the service status payload.
type StatusHandler struct {
	cfg *config.Config
	now func() time.Time
}

// NewStatusHandler creates a status handler for the given configuration.
func NewStatusHandler(cfg *config.Config) *StatusHandler {
	return &StatusHandler{cfg: cfg, now: time.Now}
}

// Status handles GET / and GET /v1/.
//
// Response: 200 OK with the service identity. In development mode the
// response also carries the current time, the mode and the listen port.
func (h *StatusHandler) Status(c *gin.Context) {
	resp := StatusResponse{
		Name:          ServiceName,
		Status:        ServiceStatus,
		Version:       APIVersion,
		Documentation: DocumentationPath,
		Health:        HealthPath,
	}

	if h.cfg.IsDevelopment() {
		resp.Timestamp = h.now().UTC().Format(apperror.TimestampLayout)
		resp.Environment = string(h.cfg.Environment)
		resp.Port = h.cfg.Port
	}

	c.JSON(http.StatusOK, resp)
}
