package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIBaseURL         string
	Environment        string
	LogLevel           slog.Level
	LogFile            string
	RequestTimeout     time.Duration
	StaleGuard         bool
	Port               string
	SessionIdleTimeout time.Duration
}

func Load() *Config {
	return &Config{
		APIBaseURL:         strings.TrimSuffix(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:            getEnv("LOG_FILE", "adventure-console.log"),
		RequestTimeout:     parseDuration(getEnv("REQUEST_TIMEOUT", ""), 30*time.Second),
		StaleGuard:         parseBool(getEnv("STALE_GUARD", ""), true),
		Port:               getEnv("PORT", "8090"),
		SessionIdleTimeout: parseDuration(getEnv("SESSION_IDLE_TIMEOUT", ""), 30*time.Minute),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseDuration accepts Go durations ("45s") or whole seconds ("45").
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func parseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
