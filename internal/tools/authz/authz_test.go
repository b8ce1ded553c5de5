package authz

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbleshop/nimbleshop/internal/tools"
)

var testConfig = Config{
	ClientID:    "client-123",
	AuthURL:     "https://auth.example.com/authorize",
	TokenURL:    "https://auth.example.com/oauth/token",
	RedirectURI: "https://app.example.com/callback",
	Audience:    "https://api.example.com",
	Scopes:      []string{"read:issues", "write:comments"},
}

func TestAuthorizeURLCarriesAllParameters(t *testing.T) {
	raw := AuthorizeURL(testConfig, "anti-forgery-1")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "auth.example.com", u.Host)
	assert.Equal(t, "/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "read:issues write:comments", q.Get("scope"))
	assert.Equal(t, "https://app.example.com/callback", q.Get("redirect_uri"))
	assert.Equal(t, "anti-forgery-1", q.Get("state"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "https://api.example.com", q.Get("audience"))
	assert.Equal(t, "consent", q.Get("prompt"))
}

func TestExchangeCodeAlwaysFails(t *testing.T) {
	for _, code := range []string{"", "valid-looking-code", "x"} {
		tok, err := ExchangeCode(testConfig, code)
		assert.Nil(t, tok)
		assert.ErrorIs(t, err, tools.ErrNotImplemented)
	}
}

func TestRefreshTokenAlwaysFails(t *testing.T) {
	for _, rt := range []string{"", "refresh-abc"} {
		tok, err := RefreshToken(testConfig, rt)
		assert.Nil(t, tok)
		assert.ErrorIs(t, err, tools.ErrNotImplemented)
	}
}
