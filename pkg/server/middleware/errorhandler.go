package middleware

import (
	"github.com/milan604/http-errors/pkg/apierr"

	"github.com/gin-gonic/gin"
)

// APIErrorKey is the gin context key holding the request's *apierr.APIError.
const APIErrorKey = "apierr_error"

// ErrorCollectorMiddleware normalizes the last error handlers attached with
// c.Error into an *apierr.APIError and stores it under APIErrorKey. It never
// writes to the response; the host renders the stored error.
func ErrorCollectorMiddleware(n *apierr.Normalizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if _, ok := GetAPIError(c); ok {
			return
		}
		last := c.Errors.Last()
		if last == nil || last.Err == nil {
			return
		}
		c.Set(APIErrorKey, normalizer(n).FromContext(c.Request.Context(), last.Err))
	}
}

// GetAPIError returns the error stored by the collector or recovery middleware.
func GetAPIError(c *gin.Context) (*apierr.APIError, bool) {
	v, ok := c.Get(APIErrorKey)
	if !ok {
		return nil, false
	}
	e, ok := v.(*apierr.APIError)
	return e, ok && e != nil
}

// SetAPIError normalizes v, stores it under APIErrorKey, records it in
// c.Errors and aborts the handler chain.
func SetAPIError(c *gin.Context, n *apierr.Normalizer, v any) *apierr.APIError {
	e := normalizer(n).FromContext(c.Request.Context(), v)
	c.Set(APIErrorKey, e)
	_ = c.Error(e)
	c.Abort()
	return e
}
