package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portify.io/server/internal/apperror"
	"portify.io/server/internal/config"
)

func serve(t *testing.T, h gin.HandlerFunc, path string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	h(c)
	return w, c
}

func TestStatus_Production(t *testing.T) {
	h := NewStatusHandler(&config.Config{Environment: config.EnvironmentProduction, Port: 8080})

	w, _ := serve(t, h.Status, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"name": "Portify API",
		"status": "running",
		"version": "v1",
		"documentation": "/docs",
		"health": "/health"
	}`, w.Body.String())
}

func TestStatus_TestModeHasNoDevelopmentFields(t *testing.T) {
	h := NewStatusHandler(&config.Config{Environment: config.EnvironmentTest, Port: 3000})

	w, _ := serve(t, h.Status, "/")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body, "timestamp")
	assert.NotContains(t, body, "environment")
	assert.NotContains(t, body, "port")
}

func TestStatus_Development(t *testing.T) {
	h := NewStatusHandler(&config.Config{Environment: config.EnvironmentDevelopment, Port: 3000})
	h.now = func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 123_000_000, time.UTC) }

	w, _ := serve(t, h.Status, "/")

	require.Equal(t, http.StatusOK, w.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ServiceName, body.Name)
	assert.Equal(t, "running", body.Status)
	assert.Equal(t, "2026-05-06T07:08:09.123Z", body.Timestamp)
	assert.Equal(t, "development", body.Environment)
	assert.Equal(t, 3000, body.Port)
}

func TestStatus_DevelopmentTimestampIsFresh(t *testing.T) {
	h := NewStatusHandler(&config.Config{Environment: config.EnvironmentDevelopment, Port: 3000})

	w, _ := serve(t, h.Status, "/")

	var body StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	ts, err := time.Parse(apperror.TimestampLayout, body.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestHealth_Liveness(t *testing.T) {
	h := NewHealthHandler("instance-1", nil)

	w, _ := serve(t, h.Liveness, "/health/live")

	require.Equal(t, http.StatusOK, w.Code)
	var body LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "instance-1", body.InstanceID)
	assert.GreaterOrEqual(t, body.UptimeSeconds, 0.0)
}

func TestHealth_Readiness(t *testing.T) {
	h := NewHealthHandler("instance-1", func() bool { return true })

	w, _ := serve(t, h.Readiness, "/health/ready")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","instance_id":"instance-1"}`, w.Body.String())
}

func TestHealth_ReadinessWhileDraining(t *testing.T) {
	h := NewHealthHandler("instance-1", func() bool { return false })

	_, c := serve(t, h.Readiness, "/health/ready")

	require.Len(t, c.Errors, 1)
	assert.Equal(t, http.StatusServiceUnavailable, apperror.StatusOf(c.Errors.Last().Err))
	assert.True(t, c.IsAborted())
}
