package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portify.io/server/internal/apperror"
	"portify.io/server/internal/logging"
	"portify.io/server/internal/metrics"
)

// ErrorHandler creates the terminal middleware that turns every failure into an
// apperror.Envelope.
//
// It must be registered first so it wraps the rest of the chain. A failure is
// either a panic raised further down or the last error attached with c.Error.
// The envelope is written unless a response has already been sent; the failure
// is always logged. Panics are absorbed here and never propagate to net/http,
// except http.ErrAbortHandler, which is re-raised so the connection is dropped.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			failure error
			stack   string
		)

		func() {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					failure = recoveredError(r)
					stack = string(debug.Stack())
				}
			}()
			c.Next()
		}()

		if failure == nil {
			failure = lastError(c)
			if failure == nil {
				return
			}
			stack = fmt.Sprintf("%+v", failure)
		}

		env := apperror.NewEnvelope(failure, c.Request.Method, c.Request.URL.Path, time.Now())

		kind := env.Error
		if kind == "" {
			kind = "unknown"
		}
		metrics.HTTPErrorsTotal.WithLabelValues(metrics.StatusClass(env.StatusCode), kind).Inc()

		logError(logger, c, env, failure, stack)

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(env.StatusCode, env)
	}
}

func logError(logger *zap.Logger, c *gin.Context, env apperror.Envelope, err error, stack string) {
	var fields []zap.Field
	if id := GetRequestID(c); id != "" {
		fields = append(fields, zap.String(logging.FieldRequestID, id))
	}

	if env.StatusCode >= 500 {
		fields = append(fields,
			zap.String(logging.FieldError, err.Error()),
			zap.String(logging.FieldStack, stack),
		)
		logger.Error(fmt.Sprintf("%s %s", env.Method, env.Path), fields...)
		return
	}

	logger.Warn(fmt.Sprintf("%s %s - %d: %s", env.Method, env.Path, env.StatusCode, env.Message.String()), fields...)
}

// NoRoute reports unmatched paths as a NotFound error for ErrorHandler to render.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.NotFound(fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path)))
	}
}

// NoMethod reports a known path requested with an unsupported method.
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperror.MethodNotAllowed(""))
	}
}

// recoveredError converts a recovered panic value into an error, keeping
// errors intact so their status and kind survive.
func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
