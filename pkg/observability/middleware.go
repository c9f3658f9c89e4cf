package observability

import (
	"github.com/milan604/http-errors/pkg/server/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// GinMiddleware starts a server span per request on o's tracer provider.
func (o *Observability) GinMiddleware() gin.HandlerFunc {
	return otelgin.Middleware(o.serviceName, otelgin.WithTracerProvider(o.tracerProvider))
}

// ErrorSpanMiddleware records the API error stored for the request on the
// request span. It must run inside GinMiddleware and outside the error
// collector and recovery middlewares.
func (o *Observability) ErrorSpanMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if e, ok := middleware.GetAPIError(c); ok {
			o.RecordAPIError(c.Request.Context(), e)
		}
	}
}

// Middlewares returns GinMiddleware followed by ErrorSpanMiddleware.
func (o *Observability) Middlewares() []gin.HandlerFunc {
	return []gin.HandlerFunc{o.GinMiddleware(), o.ErrorSpanMiddleware()}
}
