package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nimbleshop/nimbleshop/internal/apperr"
	"github.com/nimbleshop/nimbleshop/internal/token"
	"github.com/nimbleshop/nimbleshop/internal/web/response"
)

const principalKey = "principal"

// The same generic message covers missing, malformed, expired, and tampered
// tokens so clients cannot distinguish why verification failed.
const unauthenticatedMsg = "authentication required"

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth establishes the session principal from the bearer token or
// rejects the request with 401.
func RequireAuth(v token.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			response.Error(c, apperr.Unauthenticated(unauthenticatedMsg))
			return
		}
		p, err := v.Verify(raw)
		if err != nil {
			response.Error(c, apperr.Unauthenticated(unauthenticatedMsg))
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireAdmin additionally requires the administrator role. It must run
// after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, apperr.Unauthenticated(unauthenticatedMsg))
			return
		}
		if p.Role != token.RoleAdmin {
			response.Error(c, apperr.Forbidden("admin access required"))
			return
		}
		c.Next()
	}
}

// OptionalAuth verifies a token when present but swallows any failure,
// leaving the request as guest. Used by endpoints that personalize but do not
// require login.
func OptionalAuth(v token.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if p, err := v.Verify(raw); err == nil {
				c.Set(principalKey, p)
			}
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(c *gin.Context) (token.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return token.Principal{}, false
	}
	p, ok := v.(token.Principal)
	return p, ok
}
