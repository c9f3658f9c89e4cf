package middleware

import (
	"github.com/milan604/http-errors/pkg/apierr"
	"github.com/milan604/http-errors/pkg/logger"

	"github.com/gin-gonic/gin"
)

// default header names
const (
	HeaderRequestID = "X-Request-ID"
)

type RequestIDConfig struct {
	HeaderName string
	// If true, accept incoming request id header; otherwise always generate new
	AllowIncoming bool
	// Normalizer generates ids; nil means apierr.Default().
	Normalizer *apierr.Normalizer
}

func defaultRequestIDConfig() RequestIDConfig {
	return RequestIDConfig{
		HeaderName:    HeaderRequestID,
		AllowIncoming: true,
	}
}

// RequestIDMiddleware puts a request id on the gin and request contexts and
// echoes it in the response header. API errors built with FromContext or by
// the other middlewares reuse it, so the client sees the same id in the
// header and in the error body.
func RequestIDMiddleware(opts ...RequestIDConfig) gin.HandlerFunc {
	cfg := defaultRequestIDConfig()
	if len(opts) > 0 {
		cfg = opts[0]
		if cfg.HeaderName == "" {
			cfg.HeaderName = HeaderRequestID
		}
	}

	return func(c *gin.Context) {
		var reqID string
		if cfg.AllowIncoming {
			reqID = c.GetHeader(cfg.HeaderName)
		}
		if reqID == "" {
			reqID = normalizer(cfg.Normalizer).GenerateRequestID()
		}
		c.Set(string(logger.RequestIDKey), reqID)
		c.Request = c.Request.WithContext(apierr.ContextWithRequestID(c.Request.Context(), reqID))
		c.Writer.Header().Set(cfg.HeaderName, reqID)
		c.Next()
	}
}

func normalizer(n *apierr.Normalizer) *apierr.Normalizer {
	if n != nil {
		return n
	}
	return apierr.Default()
}
