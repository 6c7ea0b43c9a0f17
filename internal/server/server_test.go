package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"portify.io/server/internal/config"
	"portify.io/server/internal/metrics"
)

func testConfig(t *testing.T, environ map[string]string) *config.Config {
	t.Helper()
	if environ == nil {
		environ = map[string]string{}
	}
	if _, ok := environ["NODE_ENV"]; !ok {
		environ["NODE_ENV"] = "test"
	}
	cfg, err := config.Parse(environ)
	require.NoError(t, err)
	return cfg
}

func TestNew_AppliesConfiguration(t *testing.T) {
	cfg := testConfig(t, map[string]string{"PORT": "8081", "READ_TIMEOUT": "3s"})

	s := New(cfg, zap.NewNop())

	assert.Equal(t, ":8081", s.httpServer.Addr)
	assert.Equal(t, 3*time.Second, s.httpServer.ReadTimeout)
	assert.NotEmpty(t, s.InstanceID())
	assert.True(t, s.Ready())
	assert.NotNil(t, s.limiter, "rate limiting is on by default")
	s.stopLimiter()
}

func TestNew_RateLimitDisabled(t *testing.T) {
	cfg := testConfig(t, map[string]string{"RATE_LIMIT_RPS": "0"})

	s := New(cfg, zap.NewNop())

	assert.Nil(t, s.limiter)
}

func TestGinMode(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, ginMode(config.EnvironmentProduction))
	assert.Equal(t, gin.TestMode, ginMode(config.EnvironmentTest))
	assert.Equal(t, gin.DebugMode, ginMode(config.EnvironmentDevelopment))
}

func TestHandler_ServesRoot(t *testing.T) {
	metrics.Reset()
	s := New(testConfig(t, nil), zap.NewNop())
	defer s.stopLimiter()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "running", body["status"])
}

func TestServe_GracefulShutdown(t *testing.T) {
	metrics.Reset()
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(testConfig(t, map[string]string{"SHUTDOWN_TIMEOUT": "2s"}), zap.New(core))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health/live")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	assert.False(t, s.Ready())
	assert.Equal(t, 1, logs.FilterMessage("server stopped").Len())
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig(t, nil)
	s := New(cfg, zap.NewNop())
	s.httpServer.Addr = ln.Addr().String()

	err = s.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
	s.stopLimiter()
}
