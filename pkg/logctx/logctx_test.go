package logctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromCtx_EnrichesWithTraceAndOperator(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core).Sugar()

	ctx := WithOperatorID(WithTraceID(context.Background(), "t-1"), "op-7")
	FromCtx(ctx, base).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "t-1", fields["trace_id"])
	require.Equal(t, "op-7", fields["operator_id"])
}

func TestFromCtx_PrefersAttachedLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	attached := zap.New(core).Sugar().With("scope", "request")

	ctx := WithLogger(context.Background(), attached)
	FromCtx(ctx, zap.NewNop().Sugar()).Info("x")

	require.Len(t, logs.All(), 1)
	require.Equal(t, "request", logs.All()[0].ContextMap()["scope"])
}

func TestFromCtx_NilContext(t *testing.T) {
	base := zap.NewNop().Sugar()
	//nolint:staticcheck
	require.Same(t, base, FromCtx(nil, base))
}
