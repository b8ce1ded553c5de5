// Package web assembles the HTTP surface: middleware pipeline, module
// routes, and the health probes.
package web

import (
	"context"
	"net/http"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/auth"
	"github.com/nimbleshop/nimbleshop/internal/aws"
	"github.com/nimbleshop/nimbleshop/internal/cache"
	"github.com/nimbleshop/nimbleshop/internal/catalog"
	"github.com/nimbleshop/nimbleshop/internal/orders"
	"github.com/nimbleshop/nimbleshop/internal/search"
	"github.com/nimbleshop/nimbleshop/internal/token"
	"github.com/nimbleshop/nimbleshop/internal/tracing"
	"github.com/nimbleshop/nimbleshop/internal/web/middleware"
)

// Deps bundles everything the router needs. All handlers are constructed by
// the caller so tests can swap stores and fakes freely.
type Deps struct {
	Log      *zap.Logger
	Verifier token.Verifier
	Tracer   *tracing.Tracer

	Auth    *auth.Handler
	Catalog *catalog.Handler
	Search  *search.Handler
	Orders  *orders.Handler

	// readiness probes
	DynamoDB    aws.DynamoDBAPI
	OrdersTable string
	Cache       cache.Store

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	DocsEnabled    bool
}

// BuildRouter wires the middleware pipeline and mounts every module under
// /api. Request id and the error handler run first so every later failure is
// logged and enveloped; the rate limiter runs before auth so unauthenticated
// floods are cheap to reject.
func BuildRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	if d.Tracer != nil {
		r.Use(middleware.Trace(d.Tracer))
	}
	r.Use(middleware.ErrorHandler(d.Log))
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(middleware.SecureHeaders())

	rps := d.RateLimitRPS
	if rps <= 0 {
		rps = 20
	}
	burst := d.RateLimitBurst
	if burst <= 0 {
		burst = int(rps) * 2
	}
	r.Use(middleware.NewRateLimiter(rps, burst).Handler())

	r.GET("/health", health)
	r.GET("/ready", ready(d))

	api := r.Group("/api")
	d.Auth.RegisterRoutes(api.Group("/auth"), d.Verifier)
	d.Catalog.RegisterRoutes(api.Group("/catalog"), d.Verifier)
	d.Search.RegisterRoutes(api.Group("/search"), d.Verifier)
	d.Orders.RegisterRoutes(api.Group("/orders"), d.Verifier)

	if d.DocsEnabled {
		r.GET("/docs", docs(r))
	}

	return r
}

// docs lists the registered routes. Gated behind its own toggle so
// production deployments can keep the surface undiscoverable.
func docs(r *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes := make([]gin.H, 0)
		for _, ri := range r.Routes() {
			routes = append(routes, gin.H{"method": ri.Method, "path": ri.Path})
		}
		c.JSON(http.StatusOK, gin.H{"routes": routes})
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ready checks the dependencies a request actually needs: the orders table
// and the cache. Either one unreachable fails readiness; cached reads fall
// back to the store, but sustained cache downtime would push every read at
// the table.
func ready(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		healthy := true

		if d.DynamoDB != nil {
			_, err := d.DynamoDB.DescribeTable(ctx, &dyn.DescribeTableInput{TableName: &d.OrdersTable})
			if err != nil {
				checks["dynamodb"] = "unreachable"
				healthy = false
			} else {
				checks["dynamodb"] = "ok"
			}
		}
		if d.Cache != nil {
			if err := d.Cache.Ping(ctx); err != nil {
				checks["cache"] = "unreachable"
				healthy = false
			} else {
				checks["cache"] = "ok"
			}
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "not ready"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
