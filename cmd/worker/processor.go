package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/orders"
)

// Mailer sends the customer-facing order confirmation. A nil mailer disables
// email without changing the status transition.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to, orderID string, total float64) error
}

// Counter records a count datapoint for the named metric.
type Counter interface {
	Count(ctx context.Context, name string, value float64) error
}

// Processor consumes order-created messages and confirms orders.
type Processor struct {
	Orders  *orders.Store
	Mailer  Mailer
	Metrics Counter
	Log     *zap.Logger
}

// Handle processes an SQS batch. The first failing record aborts the batch so
// the Lambda runtime redrives it; already-confirmed orders are not failures.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processRecord(ctx, rec); err != nil {
			p.Log.Error("record failed", zap.String("message_id", rec.MessageId), zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processRecord(ctx context.Context, rec events.SQSMessage) error {
	var msg orders.CreatedEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	log := p.Log.With(zap.String("order_id", msg.OrderID), zap.String("correlation_id", msg.CorrelationID))

	order, err := p.Orders.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		// the API persists before publishing, so a missing order means the
		// table row was deleted out of band; redriving will not help
		log.Warn("order missing, dropping message")
		return nil
	}

	err = p.Orders.UpdateStatus(ctx, msg.OrderID, orders.StatusPending, orders.StatusConfirmed)
	if errors.Is(err, orders.ErrStatusMismatch) {
		// duplicate delivery or the order already moved on; both are fine
		log.Info("order not pending, skipping", zap.String("status", order.Status))
		return nil
	}
	if err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}

	if p.Mailer != nil {
		to := msg.UserEmail
		if to == "" {
			to = order.UserEmail
		}
		if err := p.Mailer.SendOrderConfirmation(ctx, to, order.OrderID, order.TotalAmount); err != nil {
			// the order is confirmed either way; email is best effort
			log.Error("confirmation email failed", zap.Error(err))
		}
	}

	if p.Metrics != nil {
		if err := p.Metrics.Count(ctx, "OrdersConfirmed", 1); err != nil {
			log.Warn("metric publish failed", zap.Error(err))
		}
	}

	log.Info("order confirmed")
	return nil
}
