package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-reconciliation/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"", slog.LevelInfo},
		{"xyzzy", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("record dropped", "source", "deals")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "record dropped", line["msg"])
	assert.Equal(t, "deals", line["source"])
	assert.Same(t, logger.Handler(), slog.Default().Handler())
}

func TestNewLogger_TextByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LogConfig{}, &buf)

	logger.Info("matching finished", "identity", 3)

	assert.Contains(t, buf.String(), "msg=\"matching finished\"")
	assert.Contains(t, buf.String(), "identity=3")
}
