package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("USERS_TABLE", "users")
	t.Setenv("PRODUCTS_TABLE", "products")
	t.Setenv("ORDERS_TABLE", "orders")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoad_MissingRequiredFails(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_CORSOriginsSplit(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "https://shop.example.com,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Len(t, cfg.CORSOrigins, 2)
}
