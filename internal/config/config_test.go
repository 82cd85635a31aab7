package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "ENVIRONMENT", "LOG_LEVEL", "LOG_FILE", "REQUEST_TIMEOUT", "STALE_GUARD", "PORT", "SESSION_IDLE_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "adventure-console.log", cfg.LogFile)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.StaleGuard)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://game.local:5000/")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("STALE_GUARD", "false")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_IDLE_TIMEOUT", "120")

	cfg := Load()
	assert.Equal(t, "http://game.local:5000", cfg.APIBaseURL)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.StaleGuard)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.SessionIdleTimeout)
}

func TestParseHelpers_FallBack(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseDuration("soon", 3*time.Second))
	assert.Equal(t, 3*time.Second, parseDuration("-4s", 3*time.Second))
	assert.Equal(t, time.Duration(0), parseDuration("0", 3*time.Second))
	assert.True(t, parseBool("maybe", true))
	assert.False(t, parseBool("0", true))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}
