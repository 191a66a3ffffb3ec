package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatConsole, "", "bogus"} {
		l, err := NewLogger(LogConfig{Level: LevelInfo, Format: format, OutputPaths: []string{"stderr"}})
		require.NoError(t, err, "format %q", format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_EmptyOutputPaths(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := t.TempDir() + "/tinydock.log"
	l, err := NewLogger(LogConfig{Level: LevelDebug, OutputPaths: []string{path}})
	require.NoError(t, err)

	l.Info("docking molecule", String("uuid", "994595c7"))
	_ = l.Sync()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestZapLogger_FieldsAreTyped(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Info("batch finished",
		String("target", "drd2"),
		Int("total", 5),
		Int64("bytes", 42),
		Float64("objective", 6.0),
		Bool("rewrite", false),
		Duration("elapsed", time.Second),
		Strings("failed", []string{"a", "b"}),
		Err(errors.New("exit status 1")),
	)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "drd2", ctx["target"])
	assert.Equal(t, int64(5), ctx["total"])
	assert.Equal(t, 6.0, ctx["objective"])
	assert.Equal(t, false, ctx["rewrite"])
	assert.Equal(t, time.Second, ctx["elapsed"])
	assert.Equal(t, "exit status 1", ctx["error"])
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	l, logs := newObservedLogger(zapcore.WarnLevel)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("w").Len())
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	child := l.Named("dock").With(String("target", "ccr2"))
	child.Info("docking molecule")
	l.Info("parent")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "dock", entries[0].LoggerName)
	assert.Equal(t, "ccr2", entries[0].ContextMap()["target"])
	assert.Empty(t, entries[1].ContextMap())
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("msg")
		l.Info("msg")
		l.Warn("msg")
		l.Error("msg")
		l.With(String("k", "v")).Named("x").Info("msg")
	})
	assert.NoError(t, l.Sync())
}

func TestDefault_SetAndGet(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, _ := newObservedLogger(zapcore.InfoLevel)
	SetDefault(l)
	assert.Same(t, l, Default())

	SetDefault(nil)
	assert.Same(t, l, Default())
}

//Personal.AI order the ending
