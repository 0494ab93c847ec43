package httpclient

import (
	"maps"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ClientOptions collects the knobs NewInstrumentedClient understands.
type ClientOptions struct {
	meterProvider  metric.MeterProvider
	providerName   string
	requestTimeout time.Duration
	headers        map[string]string
}

// ClientOption configures ClientOptions.
type ClientOption func(*ClientOptions)

// NewClientOptions applies opts over the zero value.
func NewClientOptions(opts ...ClientOption) *ClientOptions {
	options := &ClientOptions{}
	for _, o := range opts {
		o(options)
	}
	return options
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) ClientOption {
	return func(o *ClientOptions) { o.meterProvider = mp }
}

// WithProviderName tags every counted request with name.
func WithProviderName(name string) ClientOption {
	return func(o *ClientOptions) { o.providerName = name }
}

// WithRequestTimeout bounds each request. Non-positive values keep the default.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(o *ClientOptions) { o.requestTimeout = timeout }
}

// WithHeaders adds headers to requests that do not already carry them.
// Later calls merge into earlier ones.
func WithHeaders(headers map[string]string) ClientOption {
	return func(o *ClientOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		maps.Copy(o.headers, headers)
	}
}
