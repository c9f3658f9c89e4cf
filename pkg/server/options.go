package server

import (
	"github.com/milan604/http-errors/pkg/apierr"
	"github.com/milan604/http-errors/pkg/logger"
	"github.com/milan604/http-errors/pkg/observability"
	middleware "github.com/milan604/http-errors/pkg/server/middleware"

	"github.com/gin-gonic/gin"
)

// EngineOption configures NewEngine (functional options).
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger        logger.LogManager
	normalizer    *apierr.Normalizer
	requestID     *middleware.RequestIDConfig
	recovery      bool
	prometheus    *middleware.PrometheusCollector
	obs           *observability.Observability
	addMiddleware []gin.HandlerFunc
}

// WithLogger sets the access and panic logger.
func WithLogger(l logger.LogManager) EngineOption {
	return func(e *engineOptions) { e.logger = l }
}

// WithNormalizer builds errors with n instead of apierr.Default().
func WithNormalizer(n *apierr.Normalizer) EngineOption {
	return func(e *engineOptions) { e.normalizer = n }
}

// WithRequestID overrides the request id header handling.
func WithRequestID(cfg middleware.RequestIDConfig) EngineOption {
	return func(e *engineOptions) { e.requestID = &cfg }
}

func WithRecovery(enabled bool) EngineOption {
	return func(e *engineOptions) { e.recovery = enabled }
}

// WithPrometheus collects request and API error metrics into pc. Mounting
// pc.Handler() is left to the host.
func WithPrometheus(pc *middleware.PrometheusCollector) EngineOption {
	return func(e *engineOptions) { e.prometheus = pc }
}

// WithObservability traces requests and records API errors on their spans.
func WithObservability(o *observability.Observability) EngineOption {
	return func(e *engineOptions) { e.obs = o }
}

// WithMiddleware adds host middlewares. They run outside the error
// collector, so a renderer added here sees the stored API error.
func WithMiddleware(m ...gin.HandlerFunc) EngineOption {
	return func(e *engineOptions) { e.addMiddleware = append(e.addMiddleware, m...) }
}
