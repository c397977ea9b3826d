package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewFallsBackToInfoOnUnknownLevel(t *testing.T) {
	log := New("not-a-level", false)
	assert.NotNil(t, log)
}

func TestEventFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.Info().
		Str("direction", "outbound").
		Int("status", 200).
		Int64("call_count", 7).
		Dur("elapsed", 1500*time.Millisecond).
		Msg("HTTP client response")

	entry := logLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "outbound", entry["direction"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, float64(7), entry["call_count"])
	assert.Equal(t, "HTTP client response", entry["message"])
}

func TestErrField(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.Warn().Err(assert.AnError).Msg("attempt failed")

	entry := logLine(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, assert.AnError.Error(), entry["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("hidden too")
	assert.Zero(t, buf.Len())

	log.Error().Msg("visible")
	assert.NotZero(t, buf.Len())
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf).
		WithFields(map[string]any{"service": "test-service"})

	log.Info().Msg("hello")

	entry := logLine(t, &buf)
	assert.Equal(t, "test-service", entry["service"])
}

func TestMsgf(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info().Msgf("tried %d servers", 3)

	entry := logLine(t, &buf)
	assert.Equal(t, "tried 3 servers", entry["message"])
}
