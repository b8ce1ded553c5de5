// Package token issues and verifies the signed bearer tokens that carry the
// session principal. The principal is reconstructed fresh on every request
// from the token alone; nothing is stored server-side.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles form a fixed two-value enumeration.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Principal is the verified identity attached to a request.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// Claims is the JWT payload shape.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidToken covers every verification failure. Callers must not
// distinguish expiry from tampering in client-facing messages.
var ErrInvalidToken = errors.New("invalid token")

// Issuer signs tokens with a shared HMAC secret.
type Issuer struct {
	secret  []byte
	expiry  time.Duration
	nowFunc func() time.Time
}

func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiry: expiry, nowFunc: time.Now}
}

// Issue returns a signed token for the principal.
func (i *Issuer) Issue(p Principal) (string, error) {
	now := i.nowFunc()
	claims := Claims{
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks signature and expiry and returns the embedded principal.
// Every failure mode collapses into ErrInvalidToken.
func (i *Issuer) Verify(raw string) (Principal, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.nowFunc))
	if err != nil || !tok.Valid {
		return Principal{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

// Verifier is the subset of Issuer the middleware needs.
type Verifier interface {
	Verify(raw string) (Principal, error)
}
