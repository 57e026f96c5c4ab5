package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithoutContext(t *testing.T) {
	for _, tc := range []struct {
		name          string
		expectedLevel zapcore.Level
	}{
		{
			name:          "Info",
			expectedLevel: zapcore.InfoLevel,
		},
		{
			name:          "Debug",
			expectedLevel: zapcore.DebugLevel,
		},
		{
			name:          "Warn",
			expectedLevel: zapcore.WarnLevel,
		},
		{
			name:          "Error",
			expectedLevel: zapcore.ErrorLevel,
		},
	} {
		observerLogger, logs := observer.New(zap.DebugLevel)
		dut := ZapLogger{zap.New(observerLogger)}
		const testMessage = "ABC"
		switch tc.name {
		case "Info":
			dut.Info(testMessage)
		case "Debug":
			dut.Debug(testMessage)
		case "Warn":
			dut.Warn(testMessage)
		case "Error":
			dut.Error(testMessage)
		default:
			t.Errorf("%s: Unknown name", tc.name)
		}
		require.Equal(t, 1, logs.Len())

		actualMessage := logs.All()[0]
		require.Equal(t, testMessage, actualMessage.Message)

		expectedZapFields := map[string]interface{}{}
		require.Equal(t, expectedZapFields, actualMessage.ContextMap())
		require.Equal(t, tc.expectedLevel, actualMessage.Level)
	}
}

func TestWithContext(t *testing.T) {
	for _, tc := range []struct {
		name          string
		expectedLevel zapcore.Level
	}{
		{
			name:          "InfoWithContext",
			expectedLevel: zapcore.InfoLevel,
		},
		{
			name:          "DebugWithContext",
			expectedLevel: zapcore.DebugLevel,
		},
		{
			name:          "WarnWithContext",
			expectedLevel: zapcore.WarnLevel,
		},
		{
			name:          "ErrorWithContext",
			expectedLevel: zapcore.ErrorLevel,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			observerLogger, logs := observer.New(zap.DebugLevel)
			dut := ZapLogger{zap.New(observerLogger)}
			const testMessage = "ABC"
			switch tc.name {
			case "InfoWithContext":
				dut.InfoWithContext(context.Background(), testMessage)
			case "DebugWithContext":
				dut.DebugWithContext(context.Background(), testMessage)
			case "WarnWithContext":
				dut.WarnWithContext(context.Background(), testMessage)
			case "ErrorWithContext":
				dut.ErrorWithContext(context.Background(), testMessage)
			default:
				t.Errorf("%s: Unknown name", tc.name)
			}
			require.Equal(t, 1, logs.Len())

			actualMessage := logs.All()[0]
			require.Equal(t, testMessage, actualMessage.Message)

			expectedZapFields := map[string]interface{}{}
			require.Equal(t, expectedZapFields, actualMessage.ContextMap())
			require.Equal(t, tc.expectedLevel, actualMessage.Level)
		})
	}
}

func TestWithFields(t *testing.T) {
	observerLogger, logs := observer.New(zap.DebugLevel)
	logger := ZapLogger{zap.New(observerLogger)}

	const testMessage = "ABC"

	newLogger := logger.With(
		zap.String("TestOption", "Message"),
	)

	newLogger.Info(testMessage)

	// Check that child message carries the context fields
	expectedZapFields := map[string]interface{}{
		"TestOption": "Message",
	}
	childMessage := logs.All()[0]
	require.Equal(t, expectedZapFields, childMessage.ContextMap())

	// Check that parent message does not carry the context fields
	logger.Info(testMessage)
	parentMessage := logs.All()[1]
	require.Empty(t, parentMessage.ContextMap())
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "panic", "fatal"} {
		t.Run(level, func(t *testing.T) {
			for _, format := range []string{"text", "json"} {
				l, err := NewLogger(format, level, "ISO8601")
				require.NoError(t, err)
				require.NotNil(t, l)
			}
		})
	}

	t.Run("none_is_noop", func(t *testing.T) {
		l, err := NewLogger("text", "none", "Unix")
		require.NoError(t, err)
		require.False(t, l.Core().Enabled(zapcore.FatalLevel))
	})

	t.Run("unknown_level", func(t *testing.T) {
		_, err := NewLogger("text", "verbose", "Unix")
		require.ErrorContains(t, err, "unknown log level")
		require.Panics(t, func() {
			MustNewLogger("text", "verbose", "Unix")
		})
	})
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.log")

	l, err := NewFileLogger(path)
	require.NoError(t, err)

	l.Info("sampled walk", zap.String("walk", "A->B->END"))

	// entries are visible before the file is closed
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "sampled walk")
	require.Contains(t, string(data), "A->B->END")

	require.NoError(t, l.Err())
	require.NoError(t, l.Close())

	l, err = NewFileLogger(path)
	require.NoError(t, err)
	l.Info("second run")
	require.NoError(t, l.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestFileLoggerKeepsFirstWriteError(t *testing.T) {
	l, err := NewFileLogger(filepath.Join(t.TempDir(), "sample.log"))
	require.NoError(t, err)

	l.Info("written")
	require.NoError(t, l.Err())

	require.NoError(t, l.f.Close())
	l.Info("lost")
	l.Info("lost again")
	require.ErrorIs(t, l.Err(), os.ErrClosed)
}

func TestNewObserverLogger(t *testing.T) {
	l, logs := NewObserverLogger("info")
	l.Debug("hidden")
	l.Info("shown")
	require.Equal(t, 1, logs.Len())
	require.Equal(t, "shown", logs.All()[0].Message)
}
