package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelOf(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, LevelOf("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, LevelOf("warn"))
	assert.Equal(t, zapcore.InfoLevel, LevelOf("verbose"))
}

func TestNew(t *testing.T) {
	l, err := New(Options{Level: "debug", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reqLogger := zap.New(core).With(zap.String("request_id", "abc"))

	ctx := WithContext(context.Background(), reqLogger)
	FromContext(ctx).Info("Finding a product by id")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Finding a product by id", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["request_id"])

	assert.Same(t, L(), FromContext(context.Background()))
}
