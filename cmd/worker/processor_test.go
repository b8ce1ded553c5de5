package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/dynamotest"
	"github.com/nimbleshop/nimbleshop/internal/orders"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendOrderConfirmation(ctx context.Context, to, orderID string, total float64) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeCounter struct {
	counts map[string]float64
}

func (f *fakeCounter) Count(ctx context.Context, name string, value float64) error {
	if f.counts == nil {
		f.counts = map[string]float64{}
	}
	f.counts[name] += value
	return nil
}

func newProcessor(t *testing.T) (*Processor, *orders.Store, *fakeMailer, *fakeCounter) {
	t.Helper()
	mock := dynamotest.New()
	mock.RegisterTable("orders", "order_id")
	store := orders.NewStore(mock, "orders")
	mailer := &fakeMailer{}
	counter := &fakeCounter{}
	p := &Processor{Orders: store, Mailer: mailer, Metrics: counter, Log: zap.NewNop()}
	return p, store, mailer, counter
}

func sqsEvent(body string) events.SQSEvent {
	return events.SQSEvent{Records: []events.SQSMessage{{MessageId: "m-1", Body: body}}}
}

func TestProcessorConfirmsPendingOrder(t *testing.T) {
	p, store, mailer, counter := newProcessor(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, orders.Order{
		OrderID: "o-1", UserID: "u-1", UserEmail: "buyer@example.com",
		Status: orders.StatusPending, TotalAmount: 30.52,
	}))

	err := p.Handle(ctx, sqsEvent(`{"order_id":"o-1","user_email":"buyer@example.com"}`))
	require.NoError(t, err)

	got, err := store.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusConfirmed, got.Status)
	assert.Equal(t, []string{"buyer@example.com"}, mailer.sent)
	assert.Equal(t, 1.0, counter.counts["OrdersConfirmed"])
}

func TestProcessorDuplicateDeliveryIsHarmless(t *testing.T) {
	p, store, mailer, _ := newProcessor(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, orders.Order{
		OrderID: "o-1", UserID: "u-1", UserEmail: "buyer@example.com", Status: orders.StatusPending,
	}))

	body := `{"order_id":"o-1","user_email":"buyer@example.com"}`
	require.NoError(t, p.Handle(ctx, sqsEvent(body)))
	require.NoError(t, p.Handle(ctx, sqsEvent(body)))

	got, err := store.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusConfirmed, got.Status)
	// second delivery short-circuits before mailing again
	assert.Len(t, mailer.sent, 1)
}

func TestProcessorDropsMissingOrder(t *testing.T) {
	p, _, mailer, _ := newProcessor(t)

	err := p.Handle(context.Background(), sqsEvent(`{"order_id":"ghost"}`))
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestProcessorRejectsMalformedBody(t *testing.T) {
	p, _, _, _ := newProcessor(t)

	err := p.Handle(context.Background(), sqsEvent(`{not json`))
	assert.Error(t, err)
}

func TestProcessorMailFailureDoesNotFailBatch(t *testing.T) {
	p, store, _, counter := newProcessor(t)
	ctx := context.Background()
	p.Mailer = &fakeMailer{err: errors.New("smtp down")}

	require.NoError(t, store.Create(ctx, orders.Order{
		OrderID: "o-1", UserEmail: "buyer@example.com", Status: orders.StatusPending,
	}))

	err := p.Handle(ctx, sqsEvent(`{"order_id":"o-1","user_email":"buyer@example.com"}`))
	require.NoError(t, err)

	got, _ := store.Get(ctx, "o-1")
	assert.Equal(t, orders.StatusConfirmed, got.Status)
	assert.Equal(t, 1.0, counter.counts["OrdersConfirmed"])
}
