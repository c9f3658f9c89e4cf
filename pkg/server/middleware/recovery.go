package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/milan604/http-errors/pkg/apierr"
	"github.com/milan604/http-errors/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware turns panics into stored API errors. A panic raised by
// apierr.Abort keeps its entity; any other value becomes a 500 that tracks
// the panic value. http.ErrAbortHandler is re-raised.
func RecoveryMiddleware(n *apierr.Normalizer, l logger.LogManager) gin.HandlerFunc {
	n = normalizer(n)
	if l == nil {
		l = logger.NewNop()
	}
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}

			if ae, ok := r.(*apierr.APIError); ok {
				SetAPIError(c, n, ae)
				return
			}

			o := n.Resolve(apierr.Number(http.StatusInternalServerError))
			o.TrackError = r
			e := SetAPIError(c, n, o)
			l.With("log_type", "panic", "path", c.Request.URL.Path).
				ErrorFCtx(c.Request.Context(), "panic recovered: %s\n%s", e.String(), debug.Stack())
		}()
		c.Next()
	}
}
