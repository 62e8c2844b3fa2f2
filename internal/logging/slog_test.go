package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/elector/types"
)

func newBufferedSlog(level slog.Level) (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level})

	return NewSlog(slog.New(handler)), buf
}

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	t.Helper()
	var _ types.Logger = (*SlogLogger)(nil)
}

func TestNewSlog(t *testing.T) {
	logger, _ := newBufferedSlog(slog.LevelDebug)
	require.NotNil(t, logger.logger)

	require.NotNil(t, NewSlog(nil).logger, "nil falls back to slog.Default")
	require.NotNil(t, NewSlogDefault().logger)
}

func TestSlogLogger_Levels(t *testing.T) {
	logger, buf := newBufferedSlog(slog.LevelDebug)

	logger.Debug("debug message", "key", "value")
	logger.Info("registered", "candidateId", "p_0000000001")
	logger.Warn("watch discarded", "phase", "Disconnecting")
	logger.Error("relist failed", "error", "timeout")

	output := buf.String()
	assert.Contains(t, output, "level=DEBUG")
	assert.Contains(t, output, "key=value")
	assert.Contains(t, output, "level=INFO")
	assert.Contains(t, output, "candidateId=p_0000000001")
	assert.Contains(t, output, "level=WARN")
	assert.Contains(t, output, "phase=Disconnecting")
	assert.Contains(t, output, "level=ERROR")
	assert.Contains(t, output, "error=timeout")
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedSlog(slog.LevelWarn)

	logger.Debug("debug message")
	logger.Info("info message")
	assert.Empty(t, buf.String())

	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestSlogLogger_With(t *testing.T) {
	logger, buf := newBufferedSlog(slog.LevelInfo)

	logger.With("electionPath", "/election").Info("leader elected")

	assert.Contains(t, buf.String(), "electionPath=/election")
}

func TestWith(t *testing.T) {
	t.Run("no fields returns base", func(t *testing.T) {
		base, _ := newBufferedSlog(slog.LevelInfo)
		require.Same(t, base, With(base))
	})

	t.Run("prepends fields", func(t *testing.T) {
		base, buf := newBufferedSlog(slog.LevelInfo)
		scoped := With(base, "electionPath", "/election")

		scoped.Info("became leader", "candidateId", "p_0000000004")

		output := buf.String()
		assert.Contains(t, output, "electionPath=/election")
		assert.Contains(t, output, "candidateId=p_0000000004")
	})

	t.Run("nested scoping flattens", func(t *testing.T) {
		base, buf := newBufferedSlog(slog.LevelInfo)
		scoped := With(With(base, "electionPath", "/election"), "candidateId", "p_0000000002")

		inner, ok := scoped.(*scopedLogger)
		require.True(t, ok)
		require.Same(t, base, inner.base)
		require.Len(t, inner.fields, 4)

		scoped.Warn("relist")
		output := buf.String()
		assert.Contains(t, output, "electionPath=/election")
		assert.Contains(t, output, "candidateId=p_0000000002")
	})

	t.Run("parent fields are not mutated", func(t *testing.T) {
		base, _ := newBufferedSlog(slog.LevelInfo)
		parent := With(base, "a", 1).(*scopedLogger)
		_ = With(parent, "b", 2)

		require.Len(t, parent.fields, 2)
	})
}

func TestNewZap(t *testing.T) {
	logger, err := NewZap("debug", "console")
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = NewZap("info", "xml")
	require.Error(t, err)
}

func TestZapLogger(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewZapAdapter(zap.New(core).Sugar())

	logger.Info("became leader", "candidateId", "p_0000000001")
	logger.Warn("announce failed", "error", "timeout")

	entries := observed.All()
	require.Len(t, entries, 2)
	require.Equal(t, "became leader", entries[0].Message)
	require.Equal(t, "p_0000000001", entries[0].ContextMap()["candidateId"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
