package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelRoundTrip(t *testing.T) {
	for level := TraceLevel; level <= FatalLevel; level++ {
		parsed, err := ParseLogLevel(LogLevelToString(level))
		require.Nil(t, err)
		require.Equal(t, level, parsed)
	}
	_, err := ParseLogLevel("loud")
	require.NotNil(t, err)
}

func TestToZapLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, ToZapLevel(TraceLevel))
	require.Equal(t, zapcore.WarnLevel, ToZapLevel(WarnLevel))
	require.Equal(t, zapcore.FatalLevel, ToZapLevel(FatalLevel))
}

func TestNewWithSinkFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithSink(zapcore.AddSync(&buf), WarnLevel, false)
	logger.Info("hidden")
	logger.Warn("shown", zap.String("dataset", "a/b"))
	require.Nil(t, logger.Sync())
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"dataset":"a/b"`)
}

func TestOrNop(t *testing.T) {
	require.NotNil(t, OrNop(nil))
	logger := zap.NewExample()
	require.Equal(t, logger, OrNop(logger))
}
