// Package authz holds the OAuth plumbing for the vendor tools. Only the
// authorization-request URL is implemented; code exchange and refresh are
// deliberate stubs, and callers authenticate with pre-issued static
// credentials instead.
package authz

import (
	"strings"

	"golang.org/x/oauth2"

	"github.com/nimbleshop/nimbleshop/internal/tools"
)

// Config describes one vendor's OAuth endpoint.
type Config struct {
	ClientID    string
	AuthURL     string
	TokenURL    string
	RedirectURI string
	Audience    string
	Scopes      []string
}

// Token mirrors the shape an implemented exchange would return.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// AuthorizeURL builds the authorization-request URL: audience, client id,
// space-joined scopes, redirect URI, anti-forgery state, response_type=code,
// and a forced consent prompt.
func AuthorizeURL(cfg Config, state string) string {
	oc := &oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURI,
		Scopes:      []string{strings.Join(cfg.Scopes, " ")},
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.AuthURL,
			TokenURL: cfg.TokenURL,
		},
	}
	return oc.AuthCodeURL(state,
		oauth2.SetAuthURLParam("audience", cfg.Audience),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode is not implemented. It fails with the same fixed error for
// every input.
func ExchangeCode(cfg Config, code string) (*Token, error) {
	return nil, tools.ErrNotImplemented
}

// RefreshToken is not implemented. It fails with the same fixed error for
// every input.
func RefreshToken(cfg Config, refreshToken string) (*Token, error) {
	return nil, tools.ErrNotImplemented
}
