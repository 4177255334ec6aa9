package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SCHEDULER_AUTH_JWT_SECRET", "0123456789abcdef")
	t.Setenv("SCHEDULER_SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "America/Sao_Paulo", cfg.Booking.DefaultTimezone)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "7000"
auth:
  jwt_secret: "a-very-long-secret-value"
booking:
  default_timezone: "Europe/Lisbon"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "Europe/Lisbon", cfg.Booking.DefaultTimezone)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Server:    ServerConfig{Port: "8080"},
		Auth:      AuthConfig{JWTSecret: "short"},
		RateLimit: RateLimitConfig{Limit: 10, Window: time.Second},
	}
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "0123456789abcdef"
	assert.NoError(t, cfg.Validate())

	cfg.RateLimit.Limit = 0
	assert.Error(t, cfg.Validate())
}
