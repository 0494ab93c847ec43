package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/chain-explorer/business/chain/app"
	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/apm"
	"github.com/fd1az/chain-explorer/internal/apperror"
	"github.com/fd1az/chain-explorer/internal/config"
	"github.com/fd1az/chain-explorer/internal/httpclient"
	"github.com/fd1az/chain-explorer/internal/logger"
)

const userAgent = "chain-explorer"

// Dialer opens authenticated clients against one node endpoint.
type Dialer struct {
	node   config.NodeConfig
	http   httpclient.Client
	logger logger.LoggerInterface
	tracer apm.Tracer
}

// NewDialer creates a Dialer for node.
func NewDialer(node config.NodeConfig, log logger.LoggerInterface) (*Dialer, error) {
	timeout := node.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("node"),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithHeaders(map[string]string{"User-Agent": userAgent}),
	)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}

	return &Dialer{
		node:   node,
		http:   hc,
		logger: log,
		tracer: apm.NewTracer(tracerName),
	}, nil
}

// Dial implements app.ClientFactory. It asks the node for its network,
// locates the cookie and returns a client that sends it on every call.
func (d *Dialer) Dial(ctx context.Context) (app.RPCClient, domain.Network, error) {
	ctx, span := d.tracer.StartSpanFromContext(ctx, "node.dial",
		trace.WithAttributes(attribute.String("url", d.node.URL())),
	)
	defer span.End()

	client, network, err := d.dial(ctx)
	if err != nil {
		span.Fail(err, "dial failed")
		return nil, domain.NetworkUnknown, err
	}

	span.SetAttributes(attribute.String("network", network.String()))
	return client, network, nil
}

func (d *Dialer) dial(ctx context.Context) (*Client, domain.Network, error) {
	rc, err := rpc.DialOptions(ctx, d.node.URL(), rpc.WithHTTPClient(d.http.HTTPClient()))
	if err != nil {
		return nil, domain.NetworkUnknown, apperror.External(apperror.CodeNodeConnectionFailed, d.node.URL(), err)
	}

	client, err := newClient(rc, d.logger)
	if err != nil {
		rc.Close()
		return nil, domain.NetworkUnknown, apperror.Internal(apperror.CodeInternalError, "node client", err)
	}

	network, err := client.Network(ctx)
	if err != nil {
		client.Close()
		return nil, domain.NetworkUnknown, apperror.External(apperror.CodeNodeConnectionFailed, d.node.URL(), err)
	}

	dir, err := d.cookieDir(ctx, client, network)
	if err != nil {
		client.Close()
		return nil, domain.NetworkUnknown, err
	}

	token, err := loadCookie(dir)
	if err != nil {
		client.Close()
		return nil, domain.NetworkUnknown, apperror.New(apperror.CodeNodeAuthFailed,
			apperror.WithContext(dir),
			apperror.WithCause(err))
	}
	client.token = token

	d.logger.Debug(ctx, "node client ready", "url", d.node.URL(), "network", network.String(), "cookie_dir", dir)
	return client, network, nil
}

// cookieDir picks the cookie directory. A configured data dir wins; then
// the node's own hint; then the default location for network.
func (d *Dialer) cookieDir(ctx context.Context, client *Client, network domain.Network) (string, error) {
	if d.node.DataDir != "" {
		return d.node.DataDir, nil
	}

	raw, err := client.call(ctx, MethodCookieHint)
	switch {
	case err == nil && !isNull(raw):
		var hint CookieHint
		if jerr := json.Unmarshal(raw, &hint); jerr == nil && hint.DataDirectory != "" {
			return hint.DataDirectory, nil
		}
	case err != nil && !isMethodError(err):
		return "", apperror.External(apperror.CodeNodeConnectionFailed, MethodCookieHint, err)
	}

	d.logger.Debug(ctx, "cookie hint unavailable, using default data dir", "network", network.String())
	return DefaultDataDir(network), nil
}

// isMethodError reports whether err came back from the node itself rather
// than from the transport.
func isMethodError(err error) bool {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == apperror.CodeNodeMethodFailed || appErr.Code == apperror.CodeNodeUnauthorized
}
