package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbleshop/nimbleshop/internal/apperr"
)

type signupPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func newTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindAndValidate_OK(t *testing.T) {
	c, _ := newTestContext(`{"email":"a@b.com","password":"longenough"}`)

	var p signupPayload
	require.NoError(t, BindAndValidate(c, &p, New()))
	assert.Equal(t, "a@b.com", p.Email)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	c, _ := newTestContext(`{"email":`)

	var p signupPayload
	err := BindAndValidate(c, &p, New())
	require.Error(t, err)

	appErr := apperr.FromError(err)
	assert.Equal(t, apperr.CodeBadRequest, appErr.Code)
}

func TestBindAndValidate_SchemaViolation(t *testing.T) {
	c, _ := newTestContext(`{"email":"nope","password":"short"}`)

	var p signupPayload
	err := BindAndValidate(c, &p, New())
	require.Error(t, err)

	appErr := apperr.FromError(err)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.NotEmpty(t, appErr.Fields["email"])
	assert.NotEmpty(t, appErr.Fields["password"])
}
