package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(tracing bool) (*LoggerClient, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &LoggerClient{Zap: zap.New(core), tracingEnabled: tracing}, logs
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel(Debug))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(Warning))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(Error))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("production"))
}

func TestLogger_FieldsAndError(t *testing.T) {
	l, logs := observed(false)

	l.Error("failed", errors.New("boom"),
		map[string]interface{}{"collection": "a", "attempt": 1},
		map[string]interface{}{"collection": "b"},
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "failed", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "b", ctx["collection"])
	assert.Equal(t, int64(1), ctx["attempt"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLogger_WithContextAddsTraceIDs(t *testing.T) {
	l, logs := observed(true)

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	l.InfoWithContext(ctx, "traced", nil)
	l.InfoWithContext(context.Background(), "untraced", nil)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, span.SpanContext().TraceID().String(), logs.All()[0].ContextMap()["trace_id"])
	assert.NotContains(t, logs.All()[1].ContextMap(), "trace_id")
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("discarded", nil)
	l.WarnWithContext(context.Background(), "discarded", nil)
}
