// Package search serves product search over the catalog store. Matching is a
// case-insensitive substring scan over name, description, and category; the
// backing store stays authoritative and results are cached per normalized
// query.
package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nimbleshop/nimbleshop/internal/apperr"
	"github.com/nimbleshop/nimbleshop/internal/cache"
	"github.com/nimbleshop/nimbleshop/internal/catalog"
	"github.com/nimbleshop/nimbleshop/internal/token"
	"github.com/nimbleshop/nimbleshop/internal/web/middleware"
	"github.com/nimbleshop/nimbleshop/internal/web/params"
	"github.com/nimbleshop/nimbleshop/internal/web/response"
)

// ProductLister is the slice of the catalog store search reads from.
type ProductLister interface {
	List(ctx context.Context, category string) ([]catalog.Product, error)
}

// Handler groups dependencies for the search routes.
type Handler struct {
	Products ProductLister
	Cache    cache.Store
	CacheTTL time.Duration
}

// RegisterRoutes mounts search. Guests are allowed; a valid token just
// attaches the principal for future personalization.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, verifier token.Verifier) {
	rg.GET("", middleware.OptionalAuth(verifier), h.search)
}

func (h *Handler) search(c *gin.Context) {
	ctx := c.Request.Context()

	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, apperr.BadRequest("query parameter q is required"))
		return
	}
	page, limit := params.PageLimit(c)

	norm := strings.ToLower(q)
	cacheKey := fmt.Sprintf("search:%s", norm)

	var matches []catalog.Product
	hit, err := h.Cache.GetJSON(ctx, cacheKey, &matches)
	if err != nil || !hit {
		all, err := h.Products.List(ctx, "")
		if err != nil {
			response.Error(c, err)
			return
		}
		matches = filter(all, norm)
		_ = h.Cache.SetJSON(ctx, cacheKey, matches, h.CacheTTL)
	}

	lo, hi := params.Slice(len(matches), page, limit)
	response.Paged(c, http.StatusOK, matches[lo:hi], response.NewMeta(page, limit, len(matches)))
}

func filter(products []catalog.Product, norm string) []catalog.Product {
	matches := make([]catalog.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), norm) ||
			strings.Contains(strings.ToLower(p.Description), norm) ||
			strings.Contains(strings.ToLower(p.Category), norm) {
			matches = append(matches, p)
		}
	}
	return matches
}
