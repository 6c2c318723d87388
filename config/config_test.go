package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("File Values Over Defaults", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 8080
  cors_origins: ["https://hr.example.com"]
db:
  url: "postgres://hr:hr@localhost:5432/hr"
auth:
  jwt_secret: "file-secret-0123456789"
  token_ttl: 2h
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, ":8080", cfg.Addr())
		assert.Equal(t, []string{"https://hr.example.com"}, cfg.Server.CORSOrigins)
		assert.Equal(t, "postgres://hr:hr@localhost:5432/hr", cfg.DB.URL)
		assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, 5, cfg.Login.MaxAttempts)
		assert.Equal(t, 15*time.Minute, cfg.Login.Window)
		assert.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("Env Overrides File", func(t *testing.T) {
		path := writeConfig(t, "auth:\n  jwt_secret: \"file-secret-0123456789\"\n")
		t.Setenv("HR_SERVER_PORT", "9090")
		t.Setenv("HR_AUTH_JWT_SECRET", "env-secret-0123456789")
		t.Setenv("HR_REDIS_ADDR", "localhost:6379")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "env-secret-0123456789", cfg.Auth.JWTSecret)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	})

	t.Run("Missing Secret Fails", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 3000\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "jwt_secret")
	})

	t.Run("Unreadable File Fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: 3000},
			DB:     DBConfig{URL: "sqlite://hr.db"},
			Auth:   AuthConfig{JWTSecret: "0123456789abcdef", TokenTTL: time.Hour},
			Login:  LoginConfig{MaxAttempts: 5, Window: time.Minute},
		}
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"Short Secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"Zero TTL", func(c *Config) { c.Auth.TokenTTL = 0 }, "token_ttl"},
		{"Bad Port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"Empty DB URL", func(c *Config) { c.DB.URL = "  " }, "db.url"},
		{"Negative Attempts", func(c *Config) { c.Login.MaxAttempts = -1 }, "max_attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
