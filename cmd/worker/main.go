package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/aws"
	"github.com/nimbleshop/nimbleshop/internal/config"
	"github.com/nimbleshop/nimbleshop/internal/logging"
	"github.com/nimbleshop/nimbleshop/internal/orders"
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

	ctx := context.Background()
	clients, err := aws.NewClients(ctx)
	if err != nil {
		logger.Fatal("init aws clients", zap.Error(err))
	}

	var mailer Mailer
	if cfg.SMTPHost != "" {
		m, err := NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		if err != nil {
			logger.Fatal("init mailer", zap.Error(err))
		}
		mailer = m
	}

	p := &Processor{
		Orders:  orders.NewStore(clients.DynamoDB, cfg.OrdersTable),
		Mailer:  mailer,
		Metrics: aws.NewMetrics(clients.CloudWatch, cfg.MetricNamespace),
		Log:     logger,
	}

	// RUN_LOCAL feeds a single synthetic event through the handler, which is
	// enough to exercise the pipeline against local endpoints.
	if os.Getenv("RUN_LOCAL") == "true" {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"order_id":"local-order-1","user_email":"dev@example.com"}`
		}
		ev := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "local", Body: body}}}
		if err := p.Handle(ctx, ev); err != nil {
			logger.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(p.Handle)
}
