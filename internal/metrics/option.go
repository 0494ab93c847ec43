package metrics

import "strings"

// ReaderKind selects where a meter provider reader ships its data.
type ReaderKind string

const (
	// PrometheusReader exposes instruments on the scrape endpoint.
	PrometheusReader ReaderKind = "prometheus"
	// OTLPReader pushes instruments to a collector over gRPC.
	OTLPReader ReaderKind = "otlp-grpc"
)

// ReaderConfig describes one reader.
type ReaderConfig struct {
	Kind     ReaderKind
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// Config is built by the OptionFn chain passed to NewMetricProvider.
type Config struct {
	ServiceName string
	Readers     []ReaderConfig
}

type OptionFn func(config Config) Config

func WithReader(reader ReaderConfig) OptionFn {
	return func(config Config) Config {
		config.Readers = append(config.Readers, reader)
		return config
	}
}

func WithPrometheusReader() OptionFn {
	return WithReader(ReaderConfig{Kind: PrometheusReader})
}

// WithOTLPReader pushes to endpoint. An http:// endpoint disables TLS.
func WithOTLPReader(endpoint string, headers map[string]string) OptionFn {
	return WithReader(ReaderConfig{
		Kind:     OTLPReader,
		Endpoint: endpoint,
		Headers:  headers,
		Insecure: strings.HasPrefix(endpoint, "http://"),
	})
}

func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}

type PromServerConfig struct {
	port int
}

type PromOptionFn func(config PromServerConfig) PromServerConfig

// WithPort sets the scrape port. Zero picks a free one.
func WithPort(port int) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = port
		return config
	}
}
