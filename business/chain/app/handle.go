package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/apperror"
	"github.com/fd1az/chain-explorer/internal/config"
)

// Snapshot is one immutable view of how to reach the node. Cache is shared
// by reference with every later snapshot.
type Snapshot struct {
	Client        RPCClient
	Network       domain.Network
	Node          config.NodeConfig
	GenesisDigest domain.Digest
	Cache         *domain.UtxoCache
	ConnectedAt   time.Time
}

// ConnectionHandle holds the current Snapshot. Readers never block and
// always see a whole snapshot.
type ConnectionHandle struct {
	current atomic.Pointer[Snapshot]
	factory ClientFactory
	clock   clock.Clock

	// mu serializes Reconnect and Close. retired is the client the last
	// reconnect swapped out; it stays open until the next swap.
	mu      sync.Mutex
	retired RPCClient
}

// NewConnectionHandle dials the node, learns the genesis digest and
// installs the first snapshot.
func NewConnectionHandle(ctx context.Context, factory ClientFactory, node config.NodeConfig, clk clock.Clock) (*ConnectionHandle, error) {
	client, network, err := factory.Dial(ctx)
	if err != nil {
		return nil, err
	}

	genesis, err := client.BlockDigest(ctx, domain.Genesis())
	if err != nil {
		client.Close()
		return nil, err
	}
	digest, err := genesis.UnwrapOrErr(apperror.NotFound(apperror.CodeBlockNotFound, "genesis"))
	if err != nil {
		client.Close()
		return nil, err
	}

	h := &ConnectionHandle{factory: factory, clock: clk}
	h.current.Store(&Snapshot{
		Client:        client,
		Network:       network,
		Node:          node,
		GenesisDigest: digest,
		Cache:         domain.NewUtxoCache(),
		ConnectedAt:   clk.Now(),
	})
	return h, nil
}

// NewConnectionHandleFromSnapshot wraps an existing snapshot.
func NewConnectionHandleFromSnapshot(s *Snapshot, factory ClientFactory, clk clock.Clock) *ConnectionHandle {
	h := &ConnectionHandle{factory: factory, clock: clk}
	h.current.Store(s)
	return h
}

// Current returns the live snapshot.
func (h *ConnectionHandle) Current() *Snapshot {
	return h.current.Load()
}

// Replace installs s and returns the snapshot it replaced.
func (h *ConnectionHandle) Replace(s *Snapshot) *Snapshot {
	return h.current.Swap(s)
}

// Reconnect dials a fresh client and swaps in a snapshot that keeps the
// previous node config, genesis digest and cache. The replaced client stays
// open for one more reconnect cycle so in-flight readers can finish, then
// it is closed.
func (h *ConnectionHandle) Reconnect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, network, err := h.factory.Dial(ctx)
	if err != nil {
		return err
	}

	prev := h.Current()
	h.Replace(&Snapshot{
		Client:        client,
		Network:       network,
		Node:          prev.Node,
		GenesisDigest: prev.GenesisDigest,
		Cache:         prev.Cache,
		ConnectedAt:   h.clock.Now(),
	})

	if h.retired != nil && h.retired != client && h.retired != prev.Client {
		h.retired.Close()
	}
	h.retired = nil
	if prev.Client != client {
		h.retired = prev.Client
	}
	return nil
}

// Close closes the current client and any retired one still open.
func (h *ConnectionHandle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.Current()
	if s != nil && s.Client != nil {
		s.Client.Close()
	}
	if h.retired != nil && (s == nil || h.retired != s.Client) {
		h.retired.Close()
	}
	h.retired = nil
}
