// Package node provides the JSON-RPC adapter to the chain node.
package node

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/circuitbreaker"
	"github.com/fd1az/chain-explorer/internal/logger"
)

const (
	tracerName = "github.com/fd1az/chain-explorer/business/chain/infra/node"
	meterName  = "github.com/fd1az/chain-explorer/business/chain/infra/node"
)

// RPC method names served by the node.
const (
	MethodNetwork              = "explorer_network"
	MethodCookieHint           = "explorer_cookieHint"
	MethodBlockHeight          = "explorer_blockHeight"
	MethodBlockDigest          = "explorer_blockDigest"
	MethodBlockInfo            = "explorer_blockInfo"
	MethodUtxoDigest           = "explorer_utxoDigest"
	MethodAnnouncementsInBlock = "explorer_announcementsInBlock"
)

// clientMetrics holds OTEL metric instruments.
type clientMetrics struct {
	calls  metric.Int64Counter
	errors metric.Int64Counter
}

// Client implements app.RPCClient over go-ethereum's JSON-RPC client.
type Client struct {
	rpc    *rpc.Client
	token  string
	logger logger.LoggerInterface

	cb      *circuitbreaker.CircuitBreaker[json.RawMessage]
	tracer  trace.Tracer
	metrics *clientMetrics
}

func newClient(rc *rpc.Client, log logger.LoggerInterface) (*Client, error) {
	c := &Client{
		rpc:    rc,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	cfg := circuitbreaker.DefaultConfig("node-rpc")
	cfg.IsSuccessful = isBreakerSuccess
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		c.logger.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	c.cb = circuitbreaker.New[json.RawMessage](cfg)

	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.calls, err = meter.Int64Counter(
		"node_rpc_calls_total",
		metric.WithDescription("Total node RPC calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	c.metrics.errors, err = meter.Int64Counter(
		"node_rpc_errors_total",
		metric.WithDescription("Total failed node RPC calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// call runs one RPC through the breaker and returns the raw result.
func (c *Client) call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "node."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("rpc.method", method)),
	)
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("method", method))
	c.metrics.calls.Add(ctx, 1, attrs)

	raw, err := c.cb.Execute(func() (json.RawMessage, error) {
		var raw json.RawMessage
		err := c.rpc.CallContext(ctx, &raw, method, args...)
		return raw, err
	})
	if err != nil {
		c.metrics.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "rpc failed")
		return nil, classify(method, err)
	}

	return raw, nil
}

// authed prepends the cookie token.
func (c *Client) authed(args ...any) []any {
	return append([]any{c.token}, args...)
}

// decodeOption decodes raw into T, treating an empty or null result as None.
func decodeOption[T any](method string, raw json.RawMessage) (fn.Option[T], error) {
	if isNull(raw) {
		return fn.None[T](), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fn.None[T](), decodeError(method, err)
	}
	return fn.Some(v), nil
}

// Network implements app.RPCClient. It needs no credential.
func (c *Client) Network(ctx context.Context) (domain.Network, error) {
	raw, err := c.call(ctx, MethodNetwork)
	if err != nil {
		return domain.NetworkUnknown, err
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return domain.NetworkUnknown, decodeError(MethodNetwork, err)
	}

	return domain.ParseNetwork(name), nil
}

// BlockHeight implements app.RPCClient.
func (c *Client) BlockHeight(ctx context.Context) (domain.BlockHeight, error) {
	raw, err := c.call(ctx, MethodBlockHeight, c.authed()...)
	if err != nil {
		return 0, err
	}

	var h domain.BlockHeight
	if err := json.Unmarshal(raw, &h); err != nil {
		return 0, decodeError(MethodBlockHeight, err)
	}
	return h, nil
}

// BlockDigest implements app.RPCClient.
func (c *Client) BlockDigest(ctx context.Context, sel domain.BlockSelector) (fn.Option[domain.Digest], error) {
	raw, err := c.call(ctx, MethodBlockDigest, c.authed(sel)...)
	if err != nil {
		return fn.None[domain.Digest](), err
	}
	return decodeOption[domain.Digest](MethodBlockDigest, raw)
}

// BlockInfo implements app.RPCClient.
func (c *Client) BlockInfo(ctx context.Context, sel domain.BlockSelector) (fn.Option[domain.BlockInfo], error) {
	raw, err := c.call(ctx, MethodBlockInfo, c.authed(sel)...)
	if err != nil {
		return fn.None[domain.BlockInfo](), err
	}
	return decodeOption[domain.BlockInfo](MethodBlockInfo, raw)
}

// UtxoDigest implements app.RPCClient.
func (c *Client) UtxoDigest(ctx context.Context, leafIndex uint64) (fn.Option[domain.Digest], error) {
	raw, err := c.call(ctx, MethodUtxoDigest, c.authed(leafIndex)...)
	if err != nil {
		return fn.None[domain.Digest](), err
	}
	return decodeOption[domain.Digest](MethodUtxoDigest, raw)
}

// AnnouncementsInBlock implements app.RPCClient.
func (c *Client) AnnouncementsInBlock(ctx context.Context, sel domain.BlockSelector) (fn.Option[[]domain.Announcement], error) {
	raw, err := c.call(ctx, MethodAnnouncementsInBlock, c.authed(sel)...)
	if err != nil {
		return fn.None[[]domain.Announcement](), err
	}
	return decodeOption[[]domain.Announcement](MethodAnnouncementsInBlock, raw)
}

// Close implements app.RPCClient.
func (c *Client) Close() {
	c.rpc.Close()
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
