package middleware

import (
	"net/http"
	"time"

	"github.com/milan604/http-errors/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AccessLoggerMiddleware logs each request after completion. When the
// request produced an API error its diagnostic string is the log message.
func AccessLoggerMiddleware(l logger.LogManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		fields := []interface{}{
			"log_type", "access",
			"ip", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", latency.Milliseconds(),
			"size", c.Writer.Size(),
		}
		if rid := c.GetString(string(logger.RequestIDKey)); rid != "" {
			fields = append(fields, "request_id", rid)
		}
		for _, p := range c.Params {
			fields = append(fields, p.Key, p.Value)
		}

		msg := ""
		e, hasErr := GetAPIError(c)
		if hasErr {
			fields = append(fields, "errno", e.Errno(), "error_status", e.Status(), "error_request_id", e.RequestID())
			msg = e.String()
			if status < http.StatusBadRequest {
				status = e.Status()
			}
		}

		entry := l.With(fields...)
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error(msg)
		case status >= http.StatusBadRequest || hasErr:
			entry.Warn(msg)
		default:
			entry.Info(msg)
		}
	}
}
