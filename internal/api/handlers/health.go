package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portify.io/server/internal/apperror"
)

// HealthHandler handles health check endpoints.
//
// This handler provides liveness and readiness checks for Kubernetes and
// load balancer health monitoring.
type HealthHandler struct {
	instanceID string
	startedAt  time.Time
	ready      func() bool
}

// NewHealthHandler creates a new health check handler.
//
// Parameters:
//   - instanceID: This process's UUID
//   - ready: Reports whether the instance accepts traffic; nil means always ready
func NewHealthHandler(instanceID string, ready func() bool) *HealthHandler {
	if ready == nil {
		ready = func() bool { return true }
	}
	return &HealthHandler{
		instanceID: instanceID,
		startedAt:  time.Now(),
		ready:      ready,
	}
}

// LivenessResponse represents the liveness check response.
type LivenessResponse struct {
	Status        string  `json:"status"`
	InstanceID    string  `json:"instance_id"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadinessResponse represents the readiness check response.
type ReadinessResponse struct {
	Status     string `json:"status"`
	InstanceID string `json:"instance_id"`
}

// Liveness handles GET /health/live for Kubernetes liveness checks.
//
// This endpoint always returns 200 OK as long as the HTTP server is running.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:        "ok",
		InstanceID:    h.instanceID,
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
	})
}

// Readiness handles GET /health/ready for Kubernetes readiness checks.
//
// Returns:
//   - 200 OK if ready to serve traffic
//   - 503 Service Unavailable while the server is draining
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.ready() {
		respondError(c, apperror.ServiceUnavailable("Server is shutting down"))
		return
	}

	c.JSON(http.StatusOK, ReadinessResponse{
		Status:     "ready",
		InstanceID: h.instanceID,
	})
}
