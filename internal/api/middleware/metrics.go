package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portify.io/server/internal/apperror"
	"portify.io/server/internal/metrics"
)

// MetricsMiddleware creates a middleware that collects Prometheus metrics for HTTP requests.
//
// It sits inside ErrorHandler, so a failed request has not been written yet
// when it returns. The status recorded for failures is the one ErrorHandler
// is going to send.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				observe(c, start, apperror.StatusOf(recoveredError(r)))
				panic(r)
			}
		}()

		c.Next()

		status := c.Writer.Status()
		if err := lastError(c); err != nil {
			status = apperror.StatusOf(err)
		}
		observe(c, start, status)
	}
}

func observe(c *gin.Context, start time.Time, status int) {
	duration := time.Since(start).Seconds()

	method := c.Request.Method
	path := c.FullPath()
	if path == "" {
		// Unmatched routes share one label to keep cardinality bounded.
		path = "unmatched"
	}

	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)

	if size := c.Writer.Size(); size >= 0 {
		metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(size))
	}
}
