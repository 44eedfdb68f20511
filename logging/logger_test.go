package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Logger = NoOpLogger{}
	_ Logger = (*StrategyLogger)(nil)
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		err  bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{" error ", LogLevelError, false},
		{"verbose", LogLevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
		} else {
			assert.NoError(t, err, tt.in)
		}
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStrategyLogger_JSONAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})
	l.WithComponent("registry").WithSession("s-1").WithContext("user_id", "u1").Info("session created", "game_type", "chess")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "session created", entry["msg"])
	assert.Equal(t, "registry", entry["component"])
	assert.Equal(t, "s-1", entry["session_id"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, "chess", entry["game_type"])
}

func TestStrategyLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "text", Output: &buf})
	l.Debug("hidden")
	l.Info("hidden")
	l.LogGeneration("primary", "gemini", time.Millisecond, true, nil)
	assert.Empty(t, buf.String())

	l.Warn("shown")
	l.LogGeneration("primary", "gemini", time.Millisecond, false, errors.New("quota"))
	out := buf.String()
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "strategy generation failed")
	assert.Contains(t, out, "quota")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestStrategyLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})
	_ = parent.WithContext("k", "v").WithComponent("child")
	parent.Info("plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, hasK := entry["k"]
	_, hasComponent := entry["component"]
	assert.False(t, hasK)
	assert.False(t, hasComponent)
}
