// Package middleware provides HTTP middleware for the Portify API.
//
// This package implements request logging, error normalization, metrics,
// rate limiting and CORS handling for all API requests.
package middleware

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"portify.io/server/internal/apperror"
	"portify.io/server/internal/config"
	"portify.io/server/internal/logging"
)

// Context keys shared by the middleware chain and handlers.
const (
	// ContextKeyRequestID stores the correlation identifier of the request.
	ContextKeyRequestID = "request_id"

	// ContextKeyLogger stores the request-scoped logger.
	ContextKeyLogger = "logger"
)

// HeaderRequestID is the response header carrying the correlation identifier.
const HeaderRequestID = "X-Request-ID"

// excludedPrefixes are paths the request logger ignores entirely.
var excludedPrefixes = []string{"/health", "/metrics", "/favicon.ico"}

// RequestRecord is the structured summary logged once per request.
type RequestRecord struct {
	RequestID    string
	Method       string
	Path         string
	StatusCode   int
	ResponseTime time.Duration
	IP           string
	UserAgent    string
	Timestamp    time.Time
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (r RequestRecord) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString(logging.FieldRequestID, r.RequestID)
	enc.AddString(logging.FieldMethod, r.Method)
	enc.AddString(logging.FieldPath, r.Path)
	enc.AddInt(logging.FieldStatusCode, r.StatusCode)
	enc.AddInt64(logging.FieldResponseTime, r.ResponseTime.Milliseconds())
	enc.AddString(logging.FieldClientIP, r.IP)
	enc.AddString(logging.FieldUserAgent, r.UserAgent)
	enc.AddString(logging.FieldTimestamp, r.Timestamp.UTC().Format(apperror.TimestampLayout))
	return nil
}

// Line renders the record in the compact human-readable form used outside production.
func (r RequestRecord) Line() string {
	return fmt.Sprintf("%s [%s] %s %s %d - %dms",
		statusGlyph(r.StatusCode), shortID(r.RequestID), r.Method, r.Path,
		r.StatusCode, r.ResponseTime.Milliseconds())
}

func statusGlyph(status int) string {
	switch {
	case status >= 500:
		return "✗"
	case status >= 400:
		return "⚠"
	case status >= 300:
		return "↻"
	case status >= 200:
		return "✓"
	default:
		return "→"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// IsExcluded reports whether path is skipped by the request logger.
func IsExcluded(path string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequestLogger creates a middleware that logs every HTTP request with a correlation ID.
//
// The middleware tags the request with a fresh UUID, echoes it in the
// X-Request-ID header and emits exactly one record when the request ends.
// Failures (an error attached to the context or a panic) are logged at error
// level with a stack and then left for ErrorHandler: errors stay in c.Errors
// and panics are re-raised.
func RequestLogger(logger *zap.Logger, env config.Environment) gin.HandlerFunc {
	production := env == config.EnvironmentProduction
	development := env == config.EnvironmentDevelopment

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if IsExcluded(path) {
			c.Next()
			return
		}

		requestID := uuid.New().String()
		start := time.Now()

		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		userAgent := c.Request.UserAgent()
		if userAgent == "" {
			userAgent = "Unknown"
		}

		requestLogger := logger.With(zap.String(logging.FieldRequestID, requestID))

		c.Set(ContextKeyRequestID, requestID)
		c.Set(ContextKeyLogger, requestLogger)
		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		ctx = logging.WithLogger(ctx, requestLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, requestID)

		if development {
			logger.Debug(fmt.Sprintf("→ [%s] %s %s - %s", requestID, c.Request.Method, path, ip))
		}

		record := func(status int) RequestRecord {
			return RequestRecord{
				RequestID:    requestID,
				Method:       c.Request.Method,
				Path:         path,
				StatusCode:   status,
				ResponseTime: time.Since(start),
				IP:           ip,
				UserAgent:    userAgent,
				Timestamp:    time.Now(),
			}
		}

		defer func() {
			if r := recover(); r != nil {
				err := recoveredError(r)
				logFailure(logger, production, record(apperror.StatusOf(err)), string(debug.Stack()))
				panic(r)
			}
		}()

		c.Next()

		if err := lastError(c); err != nil {
			logFailure(logger, production, record(apperror.StatusOf(err)), fmt.Sprintf("%+v", err))
			return
		}

		logSuccess(logger, production, record(c.Writer.Status()))
	}
}

func logSuccess(logger *zap.Logger, production bool, rec RequestRecord) {
	if production {
		logger.Info("request completed", zap.Inline(rec))
		return
	}

	if rec.StatusCode >= 400 {
		logger.Warn(rec.Line(), zap.String(logging.FieldRequestID, rec.RequestID))
		return
	}
	logger.Info(rec.Line(), zap.String(logging.FieldRequestID, rec.RequestID))
}

func logFailure(logger *zap.Logger, production bool, rec RequestRecord, stack string) {
	if production {
		logger.Error("request failed", zap.Inline(rec), zap.String(logging.FieldStack, stack))
		return
	}
	logger.Error(rec.Line(),
		zap.String(logging.FieldRequestID, rec.RequestID),
		zap.String(logging.FieldStack, stack),
	)
}

// lastError returns the most recent error attached to the context, or nil.
func lastError(c *gin.Context) error {
	if last := c.Errors.Last(); last != nil {
		return last.Err
	}
	return nil
}

// GetLogger retrieves the request-scoped logger from Gin context.
// Returns a no-op logger if not found.
func GetLogger(c *gin.Context) *zap.Logger {
	if logger, exists := c.Get(ContextKeyLogger); exists {
		if l, ok := logger.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}

// GetRequestID retrieves the request ID from Gin context.
// Returns empty string if not found.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(ContextKeyRequestID); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
