package correlation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestEnsureCorrelationIDKeepsExisting(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "cid-1")
	ctx, cid := EnsureCorrelationID(ctx)
	require.Equal(t, "cid-1", cid)
	require.Equal(t, "cid-1", ExtractCorrelationID(ctx))
}

func TestEnsureCorrelationIDGenerates(t *testing.T) {
	ctx, cid := EnsureCorrelationID(context.Background())
	require.Len(t, cid, 26)
	require.Equal(t, cid, ExtractCorrelationID(ctx))
}

func TestMetadataFromContextCarriesRemoteSpan(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}))
	ctx = ContextWithCorrelationID(ctx, "cid-2")
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	md := MetadataFromContext(ctx, now)
	require.Equal(t, "cid-2", md.CorrelationID)
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", md.TraceID)
	require.Equal(t, "00f067aa0ba902b7", md.SpanID)
	require.Equal(t, "2024-03-01T12:00:00Z", md.PublishedAt)
	require.True(t, trace.SpanContextFromContext(ctx).IsRemote())
}
