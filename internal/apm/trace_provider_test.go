package apm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/internal/logger"
)

func TestWithHeaders(t *testing.T) {
	opts := &TracerOptions{}
	WithHeaders("x-team=abc, x-dataset=explorer,broken,=nokey")(opts)

	require.Equal(t, map[string]string{
		"x-team":    "abc",
		"x-dataset": "explorer",
	}, opts.headers)
}

func TestNewTraceProvider_EmptyByDefault(t *testing.T) {
	tp, err := NewTraceProvider(logger.Nop())
	require.NoError(t, err)
	require.IsType(t, emptyTraceProvider{}, tp)
	require.NoError(t, tp.Stop())
}

func TestNewTraceProvider_UnknownFallsBack(t *testing.T) {
	tp, err := NewTraceProvider(logger.Nop(), WithProvider("jaeger-thrift", ""))
	require.NoError(t, err)
	require.IsType(t, emptyTraceProvider{}, tp)
}

func TestNewTraceProvider_Console(t *testing.T) {
	tp, err := NewTraceProvider(logger.Nop(), WithProvider(ConsoleProvider, ""), WithServiceName("test"))
	require.NoError(t, err)
	require.IsType(t, &traceProvider{}, tp)
	require.NoError(t, tp.Stop())
}

func TestNewResource_MergesWithSDKSchema(t *testing.T) {
	rsrc, err := newResource(context.Background(), &TracerOptions{provider: ZipkinProvider, serviceName: "chain-explorer"})
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range rsrc.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	require.Equal(t, "chain-explorer", attrs["service.name"])
	require.Equal(t, "zipkin", attrs["otel.provider"])
	require.Equal(t, "opentelemetry", attrs["telemetry.sdk.name"])
}
