package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = WithTraceID(ctx, "trace-abc")
	assert.Equal(t, "trace-abc", GetTraceID(ctx))
}

func TestGenerateTraceID(t *testing.T) {
	a := GenerateTraceID()
	b := GenerateTraceID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.NotEmpty(t, id)

	ctx2 := EnsureTraceID(ctx)
	assert.Equal(t, id, GetTraceID(ctx2))
	assert.Equal(t, ctx, ctx2)
}
