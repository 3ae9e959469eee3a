package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContextWithLogger(t *testing.T) {
	d, _, _ := newTestDispatcher(LevelInfo)

	ctx := NewContextWithLogger(context.Background(), d)
	assert.NotNil(t, ctx)
	assert.Same(t, d, FromCtx(ctx))
}

func TestNewContextWithLogger_NilContext(t *testing.T) {
	d, _, _ := newTestDispatcher(LevelInfo)

	//nolint:staticcheck // nil context is handled on purpose
	ctx := NewContextWithLogger(nil, d)
	assert.NotNil(t, ctx)
	assert.Same(t, d, FromCtx(ctx))
}

func TestNewContextWithLogger_PreservesExisting(t *testing.T) {
	first, _, _ := newTestDispatcher(LevelInfo)
	second, _, _ := newTestDispatcher(LevelDebug)

	ctx := NewContextWithLogger(context.Background(), first)
	ctx = NewContextWithLogger(ctx, second)

	assert.Same(t, first, FromCtx(ctx))
}

func TestNewContextWithLogger_NilLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, NewContextWithLogger(ctx, nil))
}

func TestFromCtx_FallsBackToInstalled(t *testing.T) {
	installGlobal(t)
	d, _ := Installed()

	assert.Same(t, d, FromCtx(context.Background()))
}
