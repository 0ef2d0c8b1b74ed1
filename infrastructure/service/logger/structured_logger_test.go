package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestStructuredLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(LoggerConfig{Level: "debug", Format: "json", ServiceName: "eda-api", Output: &buf})

	ctx := WithCorrelationID(context.Background(), "cid-1")
	log.WithFields(map[string]interface{}{"component": "test"}).Error(ctx, "boom", errors.New("bad"), map[string]interface{}{"id": 3})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "eda-api", entry["service"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "cid-1", entry["correlation_id"])
	assert.Equal(t, "bad", entry["error"])
	assert.Equal(t, float64(3), entry["id"])
	assert.Contains(t, entry["caller"], "structured_logger_test.go")
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(LoggerConfig{Level: "warn", Format: "json", Output: &buf})

	log.Debug(context.Background(), "hidden", nil)
	log.Info(context.Background(), "hidden", nil)
	log.Warn(context.Background(), "shown", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
}

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := NewStructuredLogger(LoggerConfig{Level: "info", Format: "json", Output: &buf})

	LogPerformance(context.Background(), log, "GET /x", 1500*time.Millisecond, nil)
	LogAuditIngest(context.Background(), log, "rule", "10", map[string]interface{}{"name": "r"})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, float64(1500), entries[0]["duration_ms"])
	assert.Equal(t, "performance", entries[0]["event_type"])
	assert.Equal(t, "Audit rule recorded", entries[1]["msg"])
	assert.Equal(t, "10", entries[1]["record_id"])
}

func TestCorrelationID_Missing(t *testing.T) {
	assert.Equal(t, "", CorrelationID(context.Background()))
}
