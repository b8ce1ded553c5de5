// Package middleware holds the request interceptors the router composes, in
// their declared order: request id, error handling, CORS, security headers,
// rate limiting, then per-route auth guards.
package middleware

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/apperr"
	"github.com/nimbleshop/nimbleshop/internal/web/response"
)

// ErrorHandler is the single point all handler and middleware failures flow
// through. It is terminal: it logs the failure once at error severity, maps
// it to the envelope, and never rethrows. Panics anywhere in the request
// lifecycle surface here as internal errors.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				writeFailure(c, log, apperr.Internal(fmt.Errorf("panic: %v", r)))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeFailure(c, log, apperr.FromError(c.Errors.Last().Err))
	}
}

func writeFailure(c *gin.Context, log *zap.Logger, e *apperr.Error) {
	fields := []zap.Field{
		zap.String("request_id", RequestIDFrom(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", c.Request.URL.RawQuery),
		zap.String("code", string(e.Code)),
		zap.Int("status", e.Status),
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	log.Error(e.Message, fields...)

	if e.Code == apperr.CodeInternal {
		if hub := sentry.CurrentHub(); hub.Client() != nil && e.Err != nil {
			hub.CaptureException(e.Err)
		}
	}

	c.AbortWithStatusJSON(e.Status, response.Failure(e))
}
