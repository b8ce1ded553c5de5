package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/apperr"
	"github.com/nimbleshop/nimbleshop/internal/catalog"
	"github.com/nimbleshop/nimbleshop/internal/token"
	"github.com/nimbleshop/nimbleshop/internal/validation"
	"github.com/nimbleshop/nimbleshop/internal/web/middleware"
	"github.com/nimbleshop/nimbleshop/internal/web/params"
	"github.com/nimbleshop/nimbleshop/internal/web/response"
)

// ProductGetter is the slice of the catalog store order creation needs to
// price line items.
type ProductGetter interface {
	Get(ctx context.Context, productID string) (*catalog.Product, error)
}

// EventPublisher sends the order-created message the worker consumes. A nil
// publisher disables the async pipeline (local development without SQS).
type EventPublisher interface {
	Publish(ctx context.Context, messageBody string, attributes map[string]string) error
}

// CreatedEvent is the message body published on order creation.
type CreatedEvent struct {
	OrderID       string `json:"order_id"`
	UserEmail     string `json:"user_email"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Handler groups dependencies for the order routes.
type Handler struct {
	Store     *Store
	Products  ProductGetter
	Publisher EventPublisher
	Validate  *validatorv10.Validate
	Log       *zap.Logger
}

// RegisterRoutes mounts the orders module. Every route requires a session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, verifier token.Verifier) {
	rg.Use(middleware.RequireAuth(verifier))
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
}

func (h *Handler) create(c *gin.Context) {
	ctx := c.Request.Context()
	p, _ := middleware.PrincipalFrom(c)

	var req CreateOrderRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		response.Error(c, err)
		return
	}

	// Price each line from the current catalog row. Unknown products fail the
	// whole request; there is no partial order.
	items := make([]Item, 0, len(req.Items))
	for _, in := range req.Items {
		product, err := h.Products.Get(ctx, in.ProductID)
		if err != nil {
			response.Error(c, err)
			return
		}
		if product == nil {
			response.Error(c, apperr.BadRequest("unknown product: "+in.ProductID))
			return
		}
		if product.Stock < in.Quantity {
			response.Error(c, apperr.Conflict("insufficient stock for product: "+in.ProductID))
			return
		}
		items = append(items, Item{
			ProductID: product.ProductID,
			Name:      product.Name,
			Quantity:  in.Quantity,
			UnitPrice: product.Price,
			LineTotal: LineTotal(product.Price, in.Quantity),
		})
	}

	totals := ComputeTotals(items)
	order := Order{
		OrderID:         uuid.NewString(),
		UserID:          p.UserID,
		UserEmail:       p.Email,
		Status:          StatusPending,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		TotalAmount:     totals.Total,
	}

	if err := h.Store.Create(ctx, order); err != nil {
		response.Error(c, err)
		return
	}

	h.publishCreated(ctx, c, order)

	created, err := h.Store.Get(ctx, order.OrderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created == nil {
		response.Error(c, apperr.Internal(errors.New("order missing after create")))
		return
	}
	response.OKMessage(c, http.StatusCreated, created, "order created")
}

// publishCreated enqueues the confirmation message. Failure to enqueue is
// logged but does not fail the request; the order stays PENDING and can be
// confirmed by a later sweep.
func (h *Handler) publishCreated(ctx context.Context, c *gin.Context, order Order) {
	if h.Publisher == nil {
		return
	}
	body, _ := json.Marshal(CreatedEvent{
		OrderID:       order.OrderID,
		UserEmail:     order.UserEmail,
		CorrelationID: middleware.RequestIDFrom(c),
	})
	attrs := map[string]string{
		"order_id":       order.OrderID,
		"correlation_id": middleware.RequestIDFrom(c),
	}
	if err := h.Publisher.Publish(ctx, string(body), attrs); err != nil {
		h.Log.Error("failed to publish order-created event",
			zap.String("order_id", order.OrderID), zap.Error(err))
	}
}

func (h *Handler) get(c *gin.Context) {
	ctx := c.Request.Context()
	p, _ := middleware.PrincipalFrom(c)
	id := c.Param("id")

	order, err := h.Store.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	// Another customer's order reads as missing so order ids cannot be probed
	// for existence.
	if order == nil || (order.UserID != p.UserID && p.Role != token.RoleAdmin) {
		response.Error(c, apperr.NotFound("order not found"))
		return
	}

	response.OK(c, http.StatusOK, order)
}

func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	p, _ := middleware.PrincipalFrom(c)
	page, limit := params.PageLimit(c)

	orders, err := h.Store.ListByUser(ctx, p.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	lo, hi := params.Slice(len(orders), page, limit)
	response.Paged(c, http.StatusOK, orders[lo:hi], response.NewMeta(page, limit, len(orders)))
}
