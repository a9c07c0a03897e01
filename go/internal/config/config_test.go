package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "BACKEND_URL", "BACKEND_TIMEOUT", "SESSION_STORE", "SESSION_TTL", "SESSION_SECRET",
	"NATS_URL", "LOG_LEVEL", "CONSOLE_TIMEZONE", "CORS_ALLOWED_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_missingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "http://localhost:8081", cfg.Backend.URL)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoad_yamlFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  port: "9090"
  cors_allowed_origins: ["https://admin.example.com"]
backend:
  url: http://league-api:8080
  timeout: 5s
session:
  store: postgres
  ttl: 30m
  secret: s3cret
events:
  nats_url: nats://nats:4222
log:
  level: debug
display:
  timezone: UTC
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "http://league-api:8080", cfg.Backend.URL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SessionStorePostgres, cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "nats://nats:4222", cfg.Events.NATSURL)
	assert.Equal(t, "console_sessions", cfg.Session.Table)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_envOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "server:\n  port: \"9090\"\nsession:\n  ttl: 30m\n")
	t.Setenv("PORT", "7070")
	t.Setenv("SESSION_TTL", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, time.Duration(0), cfg.Session.TTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSAllowedOrigins)
	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)
}

func TestLoad_invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{"bad yaml", nil, "server: [unterminated"},
		{"postgres without secret", map[string]string{"SESSION_STORE": "postgres"}, ""},
		{"unknown store", map[string]string{"SESSION_STORE": "redis"}, ""},
		{"bad ttl", map[string]string{"SESSION_TTL": "soon"}, ""},
		{"bad port", map[string]string{"PORT": "http"}, ""},
		{"bad level", map[string]string{"LOG_LEVEL": "loud"}, ""},
		{"bad timezone", map[string]string{"CONSOLE_TIMEZONE": "Mars/Olympus"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, tt.file))
			assert.Error(t, err)
		})
	}
}
