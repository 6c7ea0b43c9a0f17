// Package server runs the Portify HTTP API with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"portify.io/server/internal/api"
	"portify.io/server/internal/api/middleware"
	"portify.io/server/internal/config"
	"portify.io/server/internal/logging"
)

// rateLimitCleanup is how often idle client buckets are dropped.
const rateLimitCleanup = time.Minute

// Server owns the HTTP listener and the state shared across requests.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	instanceID string
	ready      atomic.Bool
	limiter    *middleware.RateLimiter
	httpServer *http.Server
}

// New builds the router and HTTP server for cfg. The server is not started.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	gin.SetMode(ginMode(cfg.Environment))

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		instanceID: uuid.New().String(),
	}
	s.ready.Store(true)

	if cfg.RateLimit.RPS > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, rateLimitCleanup)
	}

	router := api.SetupRouter(&api.RouterConfig{
		Config:      cfg,
		Logger:      logger,
		InstanceID:  s.instanceID,
		Ready:       s.ready.Load,
		RateLimiter: s.limiter,
	})

	s.httpServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     zap.NewStdLog(logger.With(zap.String(logging.FieldComponent, "http"))),
	}

	return s
}

func ginMode(env config.Environment) string {
	switch env {
	case config.EnvironmentProduction:
		return gin.ReleaseMode
	case config.EnvironmentTest:
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// InstanceID returns the UUID identifying this process.
func (s *Server) InstanceID() string {
	return s.instanceID
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Ready reports whether the server still accepts new traffic.
func (s *Server) Ready() bool {
	return s.ready.Load()
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for at most the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	s.logger.Info("server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String(logging.FieldInstanceID, s.instanceID),
		zap.String("environment", string(s.cfg.Environment)),
	)

	select {
	case err := <-errCh:
		s.stopLimiter()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	s.ready.Store(false)
	s.logger.Info("shutting down server", zap.Duration("timeout", s.cfg.Server.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.stopLimiter()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) stopLimiter() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
