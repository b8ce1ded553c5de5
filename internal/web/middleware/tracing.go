package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nimbleshop/nimbleshop/internal/tracing"
)

// Trace opens a span per request and propagates it through the request
// context so stores and outbound calls nest under it.
func Trace(tr *tracing.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tr.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath(),
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}
