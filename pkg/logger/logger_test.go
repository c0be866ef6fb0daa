package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	require.Error(t, err)
}

func TestFieldsAreEncoded(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.DebugLevel).With(String("component", "watchlist"))

	l.Warn("enrichment failed",
		String("ticker", "AAPL"),
		Int("attempt", 1),
		Duration("took", 1500*time.Millisecond),
		Bool("fallback", true),
		Error(errors.New("timeout")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "enrichment failed", got["message"])
	assert.Equal(t, "watchlist", got["component"])
	assert.Equal(t, "AAPL", got["ticker"])
	assert.Equal(t, float64(1500), got["took"])
	assert.Equal(t, true, got["fallback"])
	assert.Equal(t, "timeout", got["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, zerolog.WarnLevel)

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Error("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNopDiscards(t *testing.T) {
	Nop().Error("nothing", String("k", "v"))
}
