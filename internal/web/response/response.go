// Package response defines the single JSON envelope every endpoint returns.
// Exactly one of data or error is present, never both.
package response

import (
	"github.com/gin-gonic/gin"

	"github.com/nimbleshop/nimbleshop/internal/apperr"
)

// Meta carries pagination metadata on list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta computes total pages from total items and page size.
func NewMeta(page, limit, total int) *Meta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Meta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// ErrorBody is the failure payload.
type ErrorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Envelope is the tagged response union.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// OKMessage writes a success envelope with a human-readable message.
func OKMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

// Paged writes a success envelope with pagination metadata.
func Paged(c *gin.Context, status int, data interface{}, meta *Meta) {
	c.JSON(status, Envelope{Success: true, Data: data, Meta: meta})
}

// Failure builds the failure envelope for a taxonomy error. Writing it is the
// centralized error handler's job; handlers should use Error instead.
func Failure(e *apperr.Error) Envelope {
	return Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    string(e.Code),
			Message: e.Message,
			Errors:  e.Fields,
		},
	}
}

// Error records a failure on the request context for the centralized handler.
// Handlers call it and return; nothing is written here.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
