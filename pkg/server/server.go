package server

import (
	"github.com/milan604/http-errors/pkg/logger"
	middleware "github.com/milan604/http-errors/pkg/server/middleware"

	"github.com/gin-gonic/gin"
)

// NewEngine creates a Gin engine with the API error middlewares in a fixed
// order:
//
//	request id -> access log -> prometheus -> tracing -> host middlewares -> error collector -> recovery
//
// Middlewares listed later run inside the earlier ones, so everything from
// the access log outwards sees the API error stored for the request. The
// engine never writes error responses itself. Listening and routing are left
// to the host.
func NewEngine(opts ...EngineOption) *gin.Engine {
	engine := gin.New()

	var opt engineOptions
	for _, o := range opts {
		o(&opt)
	}

	// 1. Request ID
	rid := middleware.RequestIDConfig{HeaderName: middleware.HeaderRequestID, AllowIncoming: true}
	if opt.requestID != nil {
		rid = *opt.requestID
	}
	if rid.Normalizer == nil {
		rid.Normalizer = opt.normalizer
	}
	engine.Use(middleware.RequestIDMiddleware(rid))

	// 2. Access Logger (fallback to default if not provided)
	logMgr := opt.logger
	if logMgr == nil {
		logMgr = logger.MustNewDefaultLogger()
	}
	engine.Use(middleware.AccessLoggerMiddleware(logMgr))

	// 3. Prometheus (optional)
	if opt.prometheus != nil {
		engine.Use(opt.prometheus.PrometheusMiddleware())
	}

	// 4. Tracing (optional)
	if opt.obs != nil {
		engine.Use(opt.obs.Middlewares()...)
	}

	// 5. User-provided middlewares
	for _, m := range opt.addMiddleware {
		engine.Use(m)
	}

	// 6. Error collector
	engine.Use(middleware.ErrorCollectorMiddleware(opt.normalizer))

	// 7. Recovery (optional, last)
	if opt.recovery {
		engine.Use(middleware.RecoveryMiddleware(opt.normalizer, logMgr))
	}

	return engine
}
