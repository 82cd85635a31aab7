package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/adventure-client/internal/config"
)

func TestSetup_ProductionWritesJSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	l := Setup(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)
	WithRequestID(l, "abc").Info("hello", "endpoint", "/start")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line["request_id"])
	assert.Equal(t, "/start", line["endpoint"])
}

func TestSetup_DevelopmentWritesTextAndFiltersLevel(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	l := Setup(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)
	l.Info("hidden")
	WithSession(l, "s1").Warn("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "session_id=s1")
}
