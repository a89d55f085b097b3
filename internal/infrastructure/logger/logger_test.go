package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/jan-agent-gateway/internal/config"
)

func TestNewJSONIncludesServiceFields(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&config.Config{
		ServiceName: "agent-gateway",
		Environment: "test",
		LogLevel:    "debug",
		LogFormat:   "json",
	}, &buf)

	log.Info().Str("component", "unit").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "agent-gateway", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "unit", entry["component"])
	assert.Equal(t, "hello", entry["message"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
}
