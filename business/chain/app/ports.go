// Package app contains application services and port definitions for the chain context.
package app

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/fd1az/chain-explorer/business/chain/domain"
)

// RPCClient is an authenticated channel to the node. Every method returns
// either an error (transport, auth, or application failure) or a result.
// fn.None means the node answered "not found".
type RPCClient interface {
	// Network asks the node which chain it serves. It is the cheapest call
	// and doubles as the connectivity probe.
	Network(ctx context.Context) (domain.Network, error)

	// BlockHeight returns the height of the current tip.
	BlockHeight(ctx context.Context) (domain.BlockHeight, error)

	BlockDigest(ctx context.Context, sel domain.BlockSelector) (fn.Option[domain.Digest], error)
	BlockInfo(ctx context.Context, sel domain.BlockSelector) (fn.Option[domain.BlockInfo], error)
	UtxoDigest(ctx context.Context, leafIndex uint64) (fn.Option[domain.Digest], error)
	AnnouncementsInBlock(ctx context.Context, sel domain.BlockSelector) (fn.Option[[]domain.Announcement], error)

	// Close releases idle resources.
	Close()
}

// ClientFactory builds authenticated clients. A failed Dial aborts the
// attempt only.
type ClientFactory interface {
	Dial(ctx context.Context) (RPCClient, domain.Network, error)
}

// AlertSink delivers operator alerts. sent is false when alerting is
// disabled.
type AlertSink interface {
	Send(ctx context.Context, subject, body string) (sent bool, err error)
}
