// Package params parses common query parameters.
package params

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// PageLimit reads ?page and ?limit with sane defaults and bounds. Out-of-range
// values are clamped rather than rejected.
func PageLimit(c *gin.Context) (page, limit int) {
	page = atoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit = atoiDefault(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// Slice applies page/limit to a slice length, returning the [lo, hi) window.
func Slice(total, page, limit int) (lo, hi int) {
	lo = (page - 1) * limit
	if lo > total {
		lo = total
	}
	hi = lo + limit
	if hi > total {
		hi = total
	}
	return lo, hi
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
