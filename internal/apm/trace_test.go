package apm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracer_FollowsGlobalProvider(t *testing.T) {
	tracer := NewTracer("apm-test")

	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	require.Empty(t, TraceIDFromContext(context.Background()))

	ctx, span := tracer.StartSpanFromContext(context.Background(), "supply.current")
	require.NotEmpty(t, TraceIDFromContext(ctx))
	require.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))

	span.SetAttribute(attribute.Int64("height", 42))
	span.Fail(errors.New("node down"), "tip height")
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "supply.current", ended[0].Name())
	require.Equal(t, codes.Error, ended[0].Status().Code)
	require.Equal(t, "tip height", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	require.Contains(t, ended[0].Attributes(), attribute.Int64("height", 42))
}
