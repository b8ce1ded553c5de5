package orders

import "time"

// Status values for the order lifecycle.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusShipped   = "SHIPPED"
	StatusCancelled = "CANCELLED"
)

// Address is a shipping or billing address snapshot stored on the order.
type Address struct {
	Line1      string `dynamodbav:"line1" json:"line1" validate:"required,min=1,max=200"`
	Line2      string `dynamodbav:"line2,omitempty" json:"line2,omitempty" validate:"max=200"`
	City       string `dynamodbav:"city" json:"city" validate:"required,min=1,max=100"`
	State      string `dynamodbav:"state" json:"state" validate:"required,min=1,max=100"`
	PostalCode string `dynamodbav:"postal_code" json:"postal_code" validate:"required,min=2,max=20"`
	Country    string `dynamodbav:"country" json:"country" validate:"required,len=2"`
}

// Item is an order line with the unit price captured at purchase time.
type Item struct {
	ProductID string  `dynamodbav:"product_id" json:"product_id"`
	Name      string  `dynamodbav:"name" json:"name"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
	UnitPrice float64 `dynamodbav:"unit_price" json:"unit_price"`
	LineTotal float64 `dynamodbav:"line_total" json:"line_total"`
}

// Order is the persisted order row.
type Order struct {
	OrderID         string    `dynamodbav:"order_id" json:"order_id"`
	UserID          string    `dynamodbav:"user_id" json:"user_id"`
	UserEmail       string    `dynamodbav:"user_email" json:"user_email"`
	Status          string    `dynamodbav:"status" json:"status"`
	Items           []Item    `dynamodbav:"items" json:"items"`
	ShippingAddress Address   `dynamodbav:"shipping_address" json:"shipping_address"`
	BillingAddress  Address   `dynamodbav:"billing_address" json:"billing_address"`
	Subtotal        float64   `dynamodbav:"subtotal" json:"subtotal"`
	Tax             float64   `dynamodbav:"tax" json:"tax"`
	Shipping        float64   `dynamodbav:"shipping" json:"shipping"`
	TotalAmount     float64   `dynamodbav:"total_amount" json:"total_amount"`
	CreatedAt       time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt       time.Time `dynamodbav:"updated_at" json:"updated_at"`
}

// ItemInput is a single (product, quantity) pair on order creation.
type ItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest is the payload for POST /api/orders.
type CreateOrderRequest struct {
	Items           []ItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress Address     `json:"shipping_address" validate:"required"`
	BillingAddress  Address     `json:"billing_address" validate:"required"`
}
