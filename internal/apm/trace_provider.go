package apm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/chain-explorer/internal/logger"
)

// Provider names a span exporter.
type Provider string

const (
	ZipkinProvider   Provider = "zipkin"
	OTLPGRPCProvider Provider = "otlp-grpc"
	OTLPHTTPProvider Provider = "otlp-http"
	ConsoleProvider  Provider = "console"
	EmptyProvider    Provider = "none"
)

type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

type TracerOptions struct {
	provider    Provider
	endpoint    string
	headers     map[string]string
	serviceName string
}

type TracerOption func(*TracerOptions)

// WithProvider selects the exporter and where it sends spans.
func WithProvider(provider Provider, endpoint string) TracerOption {
	return func(o *TracerOptions) {
		o.provider = provider
		o.endpoint = endpoint
	}
}

// ParseHeaders parses "k1=v1,k2=v2" into a header map. Malformed entries
// are skipped. It returns nil when nothing survives.
func ParseHeaders(raw string) map[string]string {
	var headers map[string]string
	for _, kv := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(kv), "=")
		if !ok || k == "" {
			continue
		}
		if headers == nil {
			headers = make(map[string]string)
		}
		headers[k] = v
	}
	return headers
}

// WithHeaders sets exporter headers from the ParseHeaders format.
func WithHeaders(raw string) TracerOption {
	return func(o *TracerOptions) {
		o.headers = ParseHeaders(raw)
	}
}

func WithServiceName(name string) TracerOption {
	return func(o *TracerOptions) {
		o.serviceName = name
	}
}

func newExporter(opts *TracerOptions) (sdktrace.SpanExporter, error) {
	ctx := context.Background()

	switch opts.provider {
	case ZipkinProvider:
		return zipkin.New(opts.endpoint)
	case OTLPGRPCProvider:
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(opts.endpoint),
			otlptracegrpc.WithHeaders(opts.headers))
	case OTLPHTTPProvider:
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(opts.endpoint),
			otlptracehttp.WithHeaders(opts.headers))
	case ConsoleProvider:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unknown trace provider %q", opts.provider)
	}
}

// NewTraceProvider installs a global tracer provider. An unknown or empty
// provider falls back to the no-op provider with a warning.
func NewTraceProvider(log logger.LoggerInterface, options ...TracerOption) (TraceProvider, error) {
	opts := &TracerOptions{provider: EmptyProvider}
	for _, opt := range options {
		opt(opts)
	}

	if opts.provider == EmptyProvider || opts.provider == "" {
		return NewEmptyTraceProvider(), nil
	}

	exp, err := newExporter(opts)
	if err != nil {
		log.Warn(context.Background(), "tracing disabled", "provider", string(opts.provider), "error", err)
		return NewEmptyTraceProvider(), nil
	}

	rsrc, err := newResource(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	log.Info(context.Background(), "tracing enabled", "provider", string(opts.provider), "endpoint", opts.endpoint)

	return &traceProvider{tp}, nil
}

// newResource describes this process. Attributes are added schemaless so
// they merge with whatever schema the SDK detectors carry.
func newResource(ctx context.Context, opts *TracerOptions) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(opts.serviceName),
			attribute.String("otel.provider", string(opts.provider)),
		),
	)
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	return o.tp.Shutdown(ctx)
}
