package util

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestStringHelpers(t *testing.T) {
	require.Equal(t, "push up", NormalizeKey("  Push   UP "))
	require.Equal(t, "abc...", TruncateString("abcdef", 3))
	require.Equal(t, "abcdef", TruncateString("abcdef", 10))
	require.Equal(t, "gsk_12...", MaskSecret("gsk_123456789", 6))
	require.Equal(t, "***", MaskSecret("abc", 6))
	require.Empty(t, MaskSecret("", 6))
	require.Equal(t, "Push-up%20exercise%20form%20%26%20shorts", EscapeQueryComponent("Push-up exercise form & shorts"))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	require.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	require.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNewLoggerWritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "server.log")

	logger, err := NewLogger("info", logFile)
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	require.FileExists(t, logFile)
}

func TestNextPacificMidnight(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC)
	next := NextPacificMidnight(now)

	require.True(t, next.After(now))
	require.LessOrEqual(t, next.Sub(now), 24*time.Hour)
	pt := next.In(pacificLocation)
	require.Equal(t, 0, pt.Hour())
	require.Equal(t, 0, pt.Minute())
}
