package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	sentry "github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/auth"
	"github.com/nimbleshop/nimbleshop/internal/aws"
	"github.com/nimbleshop/nimbleshop/internal/cache"
	"github.com/nimbleshop/nimbleshop/internal/catalog"
	"github.com/nimbleshop/nimbleshop/internal/config"
	"github.com/nimbleshop/nimbleshop/internal/logging"
	"github.com/nimbleshop/nimbleshop/internal/orders"
	"github.com/nimbleshop/nimbleshop/internal/search"
	"github.com/nimbleshop/nimbleshop/internal/token"
	"github.com/nimbleshop/nimbleshop/internal/tracing"
	"github.com/nimbleshop/nimbleshop/internal/validation"
	"github.com/nimbleshop/nimbleshop/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("redis_addr", cfg.RedisAddr),
		logging.Redacted("jwt_secret", cfg.JWTSecret),
		logging.Redacted("redis_password", cfg.RedisPassword),
		logging.Redacted("sentry_dsn", cfg.SentryDSN),
	)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	clients, err := aws.NewClients(ctx)
	if err != nil {
		logger.Fatal("init aws clients", zap.Error(err))
	}

	store := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	v := validation.New()

	var presigner catalog.ImagePresigner
	if cfg.MediaBucket != "" {
		presigner = aws.NewImagePresigner(clients.S3Presign, cfg.MediaBucket)
	}

	var publisher orders.EventPublisher
	if cfg.OrdersQueueURL != "" {
		publisher = aws.NewPublisher(clients.SQS, cfg.OrdersQueueURL)
	}

	productStore := catalog.NewStore(clients.DynamoDB, cfg.ProductsTable)

	r := web.BuildRouter(web.Deps{
		Log:      logger,
		Verifier: issuer,
		Tracer:   tracing.New(cfg.TracingEnabled, "nimbleshop-api"),

		Auth: &auth.Handler{
			Store:      auth.NewStore(clients.DynamoDB, cfg.UsersTable),
			Issuer:     issuer,
			Validate:   v,
			BcryptCost: cfg.BcryptCost,
		},
		Catalog: &catalog.Handler{
			Store:     productStore,
			Cache:     store,
			CacheTTL:  cfg.CacheTTL,
			Presigner: presigner,
			Validate:  v,
		},
		Search: &search.Handler{
			Products: productStore,
			Cache:    store,
			CacheTTL: cfg.CacheTTL,
		},
		Orders: &orders.Handler{
			Store:     orders.NewStore(clients.DynamoDB, cfg.OrdersTable),
			Products:  productStore,
			Publisher: publisher,
			Validate:  v,
			Log:       logger,
		},

		DynamoDB:    clients.DynamoDB,
		OrdersTable: cfg.OrdersTable,
		Cache:       store,

		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		DocsEnabled:    cfg.DocsEnabled,
	})

	// RUN_LOCAL runs a plain HTTP server for development; the default is the
	// Lambda adapter behind API Gateway.
	if os.Getenv("RUN_LOCAL") == "true" {
		runLocal(r, cfg.HTTPAddr, logger, store)
		return
	}

	adapter := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

// runLocal serves until SIGINT/SIGTERM, then drains in-flight requests
// before closing the cache connection.
func runLocal(handler http.Handler, addr string, logger *zap.Logger, store *cache.Redis) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("local server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		logger.Error("close cache", zap.Error(err))
	}
	logger.Info("stopped")
}
