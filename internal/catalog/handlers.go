package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nimbleshop/nimbleshop/internal/apperr"
	"github.com/nimbleshop/nimbleshop/internal/cache"
	"github.com/nimbleshop/nimbleshop/internal/token"
	"github.com/nimbleshop/nimbleshop/internal/validation"
	"github.com/nimbleshop/nimbleshop/internal/web/middleware"
	"github.com/nimbleshop/nimbleshop/internal/web/params"
	"github.com/nimbleshop/nimbleshop/internal/web/response"
)

// ImagePresigner hands out upload URLs for product images.
type ImagePresigner interface {
	UploadURL(ctx context.Context, key, contentType string) (uploadURL, objectURL string, err error)
}

// Handler groups dependencies for the catalog routes.
type Handler struct {
	Store     *Store
	Cache     cache.Store
	CacheTTL  time.Duration
	Presigner ImagePresigner
	Validate  *validatorv10.Validate
}

// RegisterRoutes mounts the catalog module. Reads are public; writes require
// an administrator.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, verifier token.Verifier) {
	rg.GET("/products", h.list)
	rg.GET("/products/:id", h.get)

	admin := rg.Group("", middleware.RequireAuth(verifier), middleware.RequireAdmin())
	admin.POST("/products", h.create)
	admin.PUT("/products/:id", h.update)
	admin.DELETE("/products/:id", h.delete)
	admin.POST("/products/:id/image-url", h.imageURL)
}

func productKey(id string) string { return "catalog:product:" + id }

func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	page, limit := params.PageLimit(c)
	category := c.Query("category")

	listKey := fmt.Sprintf("catalog:list:%s", category)
	var products []Product
	hit, err := h.Cache.GetJSON(ctx, listKey, &products)
	if err != nil || !hit {
		products, err = h.Store.List(ctx, category)
		if err != nil {
			response.Error(c, err)
			return
		}
		_ = h.Cache.SetJSON(ctx, listKey, products, h.CacheTTL)
	}

	lo, hi := params.Slice(len(products), page, limit)
	response.Paged(c, http.StatusOK, products[lo:hi], response.NewMeta(page, limit, len(products)))
}

func (h *Handler) get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var p Product
	hit, err := h.Cache.GetJSON(ctx, productKey(id), &p)
	if err == nil && hit {
		response.OK(c, http.StatusOK, p)
		return
	}

	found, err := h.Store.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if found == nil {
		response.Error(c, apperr.NotFound("product not found"))
		return
	}

	_ = h.Cache.SetJSON(ctx, productKey(id), *found, h.CacheTTL)
	response.OK(c, http.StatusOK, *found)
}

func (h *Handler) create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateProductRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		response.Error(c, err)
		return
	}

	p := Product{
		ProductID:   uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	p, err := h.Store.Put(ctx, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.invalidateLists(ctx, p.Category)
	response.OK(c, http.StatusCreated, p)
}

func (h *Handler) update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req UpdateProductRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		response.Error(c, err)
		return
	}

	existing, err := h.Store.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if existing == nil {
		response.Error(c, apperr.NotFound("product not found"))
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Category = req.Category
	existing.Price = req.Price
	existing.Stock = req.Stock

	updated, err := h.Store.Put(ctx, *existing)
	if err != nil {
		response.Error(c, err)
		return
	}

	_ = h.Cache.Delete(ctx, productKey(id))
	h.invalidateLists(ctx, updated.Category)
	response.OK(c, http.StatusOK, updated)
}

func (h *Handler) delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	existing, err := h.Store.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if existing == nil {
		response.Error(c, apperr.NotFound("product not found"))
		return
	}

	if err := h.Store.Delete(ctx, id); err != nil {
		response.Error(c, err)
		return
	}

	_ = h.Cache.Delete(ctx, productKey(id))
	h.invalidateLists(ctx, existing.Category)
	response.OKMessage(c, http.StatusOK, nil, "product deleted")
}

func (h *Handler) imageURL(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if h.Presigner == nil {
		response.Error(c, apperr.BadRequest("image uploads are not configured"))
		return
	}

	var req ImageUploadRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		response.Error(c, err)
		return
	}

	existing, err := h.Store.Get(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if existing == nil {
		response.Error(c, apperr.NotFound("product not found"))
		return
	}

	key := fmt.Sprintf("products/%s/%s", id, uuid.NewString())
	uploadURL, objectURL, err := h.Presigner.UploadURL(ctx, key, req.ContentType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, ImageUploadResponse{UploadURL: uploadURL, ImageURL: objectURL})
}

// invalidateLists drops the cached product lists touched by a write. The
// uncategorized list key is always dropped.
func (h *Handler) invalidateLists(ctx context.Context, category string) {
	keys := []string{"catalog:list:"}
	if category != "" {
		keys = append(keys, "catalog:list:"+category)
	}
	_ = h.Cache.Delete(ctx, keys...)
}
