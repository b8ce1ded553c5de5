package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nimbleshop/nimbleshop/internal/apperr"
	"github.com/nimbleshop/nimbleshop/internal/token"
	"github.com/nimbleshop/nimbleshop/internal/validation"
	"github.com/nimbleshop/nimbleshop/internal/web/middleware"
	"github.com/nimbleshop/nimbleshop/internal/web/response"
)

// Handler groups dependencies for the auth routes.
type Handler struct {
	Store      *Store
	Issuer     *token.Issuer
	Validate   *validatorv10.Validate
	BcryptCost int
}

// RegisterRoutes mounts the auth module under the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, verifier token.Verifier) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.GET("/me", middleware.RequireAuth(verifier), h.me)
}

func (h *Handler) register(c *gin.Context) {
	ctx := c.Request.Context()

	var req RegisterRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		response.Error(c, err)
		return
	}

	hash, err := HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		response.Error(c, err)
		return
	}

	u := User{
		UserID:       uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         token.RoleCustomer,
	}
	if err := h.Store.Create(ctx, u); err != nil {
		if err == ErrEmailTaken {
			response.Error(c, apperr.Conflict("email already registered"))
			return
		}
		response.Error(c, err)
		return
	}

	tok, err := h.Issuer.Issue(token.Principal{UserID: u.UserID, Email: u.Email, Role: u.Role})
	if err != nil {
		response.Error(c, err)
		return
	}

	u.PasswordHash = ""
	response.OKMessage(c, http.StatusCreated, AuthResponse{Token: tok, User: u}, "account created")
}

func (h *Handler) login(c *gin.Context) {
	ctx := c.Request.Context()

	var req LoginRequest
	if err := validation.BindAndValidate(c, &req, h.Validate); err != nil {
		response.Error(c, err)
		return
	}

	// A missing account and a wrong password produce the same response.
	u, err := h.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	if u == nil || !CheckPassword(u.PasswordHash, req.Password) {
		response.Error(c, apperr.Unauthenticated("invalid credentials"))
		return
	}

	tok, err := h.Issuer.Issue(token.Principal{UserID: u.UserID, Email: u.Email, Role: u.Role})
	if err != nil {
		response.Error(c, err)
		return
	}

	u.PasswordHash = ""
	response.OK(c, http.StatusOK, AuthResponse{Token: tok, User: *u})
}

func (h *Handler) me(c *gin.Context) {
	ctx := c.Request.Context()

	p, _ := middleware.PrincipalFrom(c)
	u, err := h.Store.GetByEmail(ctx, p.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	if u == nil {
		response.Error(c, apperr.NotFound("user not found"))
		return
	}

	u.PasswordHash = ""
	response.OK(c, http.StatusOK, u)
}
