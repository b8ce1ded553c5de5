package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbleshop/nimbleshop/internal/dynamotest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mock := dynamotest.New()
	mock.RegisterTable("orders", "order_id")
	return NewStore(mock, "orders")
}

func TestStoreCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	o := Order{OrderID: "o-1", UserID: "u-1", Status: StatusPending, Subtotal: 19, Tax: 1.52, Shipping: 10, TotalAmount: 30.52}
	require.NoError(t, s.Create(ctx, o))

	got, err := s.Get(ctx, "o-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, 30.52, got.TotalAmount)

	missing, err := s.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStoreCreateRejectsDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, Order{OrderID: "o-1", UserID: "u-1", Status: StatusPending}))
	err := s.Create(ctx, Order{OrderID: "o-1", UserID: "u-2", Status: StatusPending})
	assert.Error(t, err)
}

func TestUpdateStatusConditional(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, Order{OrderID: "o-1", UserID: "u-1", Status: StatusPending}))

	require.NoError(t, s.UpdateStatus(ctx, "o-1", StatusPending, StatusConfirmed))

	got, err := s.Get(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	// second delivery of the same event sees the order already confirmed
	err = s.UpdateStatus(ctx, "o-1", StatusPending, StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusMismatch)
}
