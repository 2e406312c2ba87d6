package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKey = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PASETO_KEY", validKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5001", cfg.Server.BaseURL)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
	assert.True(t, cfg.Server.IsDevelopment())
}

func TestLoad_MissingKey(t *testing.T) {
	t.Setenv("PASETO_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PASETO_KEY must be set")
}

func TestLoad_ShortKey(t *testing.T) {
	t.Setenv("PASETO_KEY", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PASETO_KEY", validKey)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BASE_URL", "https://accounts.example.com/")
	t.Setenv("TOKEN_DURATION", "7200")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("TRUSTED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "https://accounts.example.com", cfg.Server.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenDuration)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.TrustedOrigins)
}
