// Package api provides the HTTP layer of the Portify API.
//
// It wires the middleware pipeline and the route table on top of Gin.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"portify.io/server/internal/api/handlers"
	"portify.io/server/internal/api/middleware"
	"portify.io/server/internal/config"
	"portify.io/server/internal/metrics"
)

// RouterConfig holds configuration for setting up the HTTP router.
type RouterConfig struct {
	// Config is the validated service configuration.
	Config *config.Config

	// Logger is the Zap logger for request and error logging.
	Logger *zap.Logger

	// InstanceID is this process's UUID, reported by the health endpoints.
	InstanceID string

	// Ready reports whether the instance accepts traffic. Nil means always ready.
	Ready func() bool

	// RateLimiter throttles clients by IP. Nil disables rate limiting.
	RateLimiter *middleware.RateLimiter
}

// SetupRouter creates and configures the Gin HTTP router with all routes and middleware.
//
// Middleware order, outermost first: error handler, metrics, request logger,
// CORS (when origins are configured), rate limiting (when enabled).
func SetupRouter(rc *RouterConfig) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.ErrorHandler(rc.Logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(rc.Logger, rc.Config.Environment))

	if len(rc.Config.CORSOrigins) > 0 {
		router.Use(middleware.CORS(rc.Config.CORSOrigins))
	}

	if rc.RateLimiter != nil {
		router.Use(middleware.RateLimitByIP(rc.RateLimiter))
	}

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	statusHandler := handlers.NewStatusHandler(rc.Config)
	healthHandler := handlers.NewHealthHandler(rc.InstanceID, rc.Ready)

	router.GET("/", statusHandler.Status)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		metrics.Registry,
		promhttp.HandlerOpts{},
	)))

	health := router.Group(handlers.HealthPath)
	{
		health.GET("", healthHandler.Liveness)
		health.GET("/live", healthHandler.Liveness)
		health.GET("/ready", healthHandler.Readiness)
	}

	v1 := router.Group("/" + handlers.APIVersion)
	{
		v1.GET("", statusHandler.Status)
		v1.GET("/", statusHandler.Status)
	}

	return router
}
