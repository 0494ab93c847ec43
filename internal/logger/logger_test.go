package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/internal/logger"
)

func TestLogger_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	traceID := func(context.Context) string { return "abc123" }
	log := logger.New(&buf, logger.LevelInfo, "explorer", traceID)

	log.Info(context.Background(), "rpc connection restored", "height", 42)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "rpc connection restored", rec["msg"])
	require.Equal(t, "explorer", rec["service"])
	require.Equal(t, "abc123", rec["trace_id"])
	require.EqualValues(t, 42, rec["height"])
	require.Contains(t, rec["file"], "logger_test.go")
}

func TestLogger_FiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelWarn, "explorer", nil)

	log.Debug(context.Background(), "dropped")
	log.Info(context.Background(), "dropped")
	require.Zero(t, buf.Len())

	log.Warn(context.Background(), "kept")
	require.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]logger.Level{
		"debug":   logger.LevelDebug,
		"info":    logger.LevelInfo,
		"warn":    logger.LevelWarn,
		"error":   logger.LevelError,
		"verbose": logger.LevelInfo,
	}
	for name, want := range tests {
		require.Equal(t, want, logger.ParseLevel(name), name)
	}
}
