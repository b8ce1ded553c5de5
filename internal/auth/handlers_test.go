package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nimbleshop/nimbleshop/internal/dynamotest"
	"github.com/nimbleshop/nimbleshop/internal/token"
	"github.com/nimbleshop/nimbleshop/internal/validation"
	"github.com/nimbleshop/nimbleshop/internal/web/middleware"
	"github.com/nimbleshop/nimbleshop/internal/web/response"
)

const usersTable = "users"

func newAuthRouter(t *testing.T) (*gin.Engine, *dynamotest.Mock, *token.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock := dynamotest.New()
	mock.RegisterTable(usersTable, "email")

	iss := token.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour)
	h := &Handler{
		Store:      NewStore(mock, usersTable),
		Issuer:     iss,
		Validate:   validation.New(),
		BcryptCost: 4, // fast for tests
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler(zap.NewNop()))
	h.RegisterRoutes(r.Group("/api/auth"), iss)
	return r, mock, iss
}

func postJSON(r *gin.Engine, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRegister_Success(t *testing.T) {
	r, mock, _ := newAuthRouter(t)

	w := postJSON(r, "/api/auth/register", `{"email":"a@b.com","password":"longenough","name":"Ann"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Len(t, mock.Tables[usersTable], 1)
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	body := `{"email":"a@b.com","password":"longenough","name":"Ann"}`
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/auth/register", body, nil).Code)

	w := postJSON(r, "/api/auth/register", body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decode(t, w).Error.Code)
}

func TestRegister_ValidationErrors(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	w := postJSON(r, "/api/auth/register", `{"email":"nope","password":"short","name":""}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	env := decode(t, w)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.NotEmpty(t, env.Error.Errors["email"])
	assert.NotEmpty(t, env.Error.Errors["password"])
	assert.NotEmpty(t, env.Error.Errors["name"])
}

func TestLogin_SuccessAndMe(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	body := `{"email":"a@b.com","password":"longenough","name":"Ann"}`
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/auth/register", body, nil).Code)

	w := postJSON(r, "/api/auth/login", `{"email":"a@b.com","password":"longenough"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+env.Data.Token)
	mw := httptest.NewRecorder()
	r.ServeHTTP(mw, req)
	assert.Equal(t, http.StatusOK, mw.Code)
	assert.Contains(t, mw.Body.String(), "a@b.com")
}

func TestLogin_WrongPasswordAndUnknownUserIdentical(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	body := `{"email":"a@b.com","password":"longenough","name":"Ann"}`
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/auth/register", body, nil).Code)

	wrongPass := postJSON(r, "/api/auth/login", `{"email":"a@b.com","password":"wrongwrong"}`, nil)
	unknown := postJSON(r, "/api/auth/login", `{"email":"x@y.com","password":"wrongwrong"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrongPass.Body.String(), unknown.Body.String())
}
