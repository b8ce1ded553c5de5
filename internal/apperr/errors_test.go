package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError_PassThrough(t *testing.T) {
	orig := NotFound("order not found")
	got := FromError(fmt.Errorf("handler: %w", orig))
	assert.Same(t, orig, got)
}

func TestFromError_UnknownBecomesInternal(t *testing.T) {
	got := FromError(errors.New("dynamo exploded"))
	assert.Equal(t, CodeInternal, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	// internal details must not leak into client-facing message
	assert.Equal(t, "internal server error", got.Message)
	assert.EqualError(t, got.Err, "dynamo exploded")
}

func TestFromError_ValidatorErrors(t *testing.T) {
	type item struct {
		Quantity int `json:"quantity" validate:"min=1"`
	}
	type payload struct {
		Email string `json:"email" validate:"required,email"`
		Items []item `json:"items" validate:"required,min=1,dive"`
	}

	v := validatorv10.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string { return fld.Tag.Get("json") })

	err := v.Struct(payload{Items: []item{{Quantity: -1}}})
	require.Error(t, err)

	got := FromError(err)
	assert.Equal(t, CodeValidation, got.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, got.Status)
	assert.NotEmpty(t, got.Fields["email"])
	assert.NotEmpty(t, got.Fields["items.0.quantity"])
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   Code
	}{
		{BadRequest("x"), http.StatusBadRequest, CodeBadRequest},
		{Unauthenticated("x"), http.StatusUnauthorized, CodeUnauthorized},
		{Forbidden("x"), http.StatusForbidden, CodeForbidden},
		{NotFound("x"), http.StatusNotFound, CodeNotFound},
		{Conflict("x"), http.StatusConflict, CodeConflict},
		{Validation(nil), http.StatusUnprocessableEntity, CodeValidation},
		{Internal(errors.New("x")), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status, string(tc.code))
		assert.Equal(t, tc.code, tc.err.Code)
	}
}
