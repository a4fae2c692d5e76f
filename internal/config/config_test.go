package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("STORE_CURRENCY", "")
	t.Setenv("JWT_TTL_MINUTES", "")
	t.Setenv("CORS_ALLOWED_ORIGIN", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, currency.EUR, cfg.Currency)
	assert.Equal(t, 300*time.Minute, cfg.JWTTTL)
	assert.Equal(t, "http://localhost:8080", cfg.CORSAllowedOrigin)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STORE_CURRENCY", "usd")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, currency.USD, cfg.Currency)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 2525, cfg.SMTP.Port)
}

func TestFromEnv_InvalidCurrency(t *testing.T) {
	t.Setenv("STORE_CURRENCY", "NOPE")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_CURRENCY")
}

func TestRequireAPI(t *testing.T) {
	assert.Error(t, Config{}.RequireAPI())
	assert.NoError(t, Config{JWTSecret: "s3cret"}.RequireAPI())
}
