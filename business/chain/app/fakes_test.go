package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/ticker"

	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/config"
	"github.com/fd1az/chain-explorer/internal/logger"
)

var (
	errUnreachable = errors.New("connection refused")
	testStart      = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	testGenesis    = domain.Digest{0x9e}
)

// heightResult is one scripted BlockHeight answer.
type heightResult struct {
	height domain.BlockHeight
	err    error
}

type fakeClient struct {
	mu          sync.Mutex
	network     domain.Network
	networkErrs []error
	heights     []heightResult
	blocks      map[string]domain.BlockInfo
	anns        map[domain.Digest][]domain.Announcement
	utxos       map[uint64]domain.Digest
	probes      int
	closed      bool
	rpcs        int

	// onBlockInfo runs after BlockInfo has answered.
	onBlockInfo func()
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		network: domain.NetworkMain,
		blocks:  map[string]domain.BlockInfo{},
		anns:    map[domain.Digest][]domain.Announcement{},
		utxos:   map[uint64]domain.Digest{},
	}
}

func (c *fakeClient) Network(context.Context) (domain.Network, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes++
	if len(c.networkErrs) > 0 {
		err := c.networkErrs[0]
		c.networkErrs = c.networkErrs[1:]
		if err != nil {
			return "", err
		}
	}
	return c.network, nil
}

func (c *fakeClient) BlockHeight(context.Context) (domain.BlockHeight, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.heights) == 0 {
		return 0, errUnreachable
	}
	r := c.heights[0]
	c.heights = c.heights[1:]
	return r.height, r.err
}

func (c *fakeClient) BlockDigest(_ context.Context, sel domain.BlockSelector) (fn.Option[domain.Digest], error) {
	if sel.IsGenesis() {
		return fn.Some(testGenesis), nil
	}
	info, ok := c.blocks[sel.String()]
	if !ok {
		return fn.None[domain.Digest](), nil
	}
	return fn.Some(info.Digest), nil
}

func (c *fakeClient) BlockInfo(_ context.Context, sel domain.BlockSelector) (fn.Option[domain.BlockInfo], error) {
	c.countRPC()
	if c.onBlockInfo != nil {
		defer c.onBlockInfo()
	}
	info, ok := c.blocks[sel.String()]
	if !ok {
		return fn.None[domain.BlockInfo](), nil
	}
	return fn.Some(info), nil
}

func (c *fakeClient) UtxoDigest(_ context.Context, leaf uint64) (fn.Option[domain.Digest], error) {
	d, ok := c.utxos[leaf]
	if !ok {
		return fn.None[domain.Digest](), nil
	}
	return fn.Some(d), nil
}

func (c *fakeClient) AnnouncementsInBlock(_ context.Context, sel domain.BlockSelector) (fn.Option[[]domain.Announcement], error) {
	c.countRPC()
	d, ok := sel.Digest()
	if !ok {
		return fn.None[[]domain.Announcement](), nil
	}
	list, ok := c.anns[d]
	if !ok {
		return fn.None[[]domain.Announcement](), nil
	}
	return fn.Some(list), nil
}

func (c *fakeClient) countRPC() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rpcs++
}

func (c *fakeClient) rpcCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rpcs
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

type fakeFactory struct {
	mu     sync.Mutex
	client *fakeClient
	err    error
	dials  int
}

func (f *fakeFactory) Dial(context.Context) (RPCClient, domain.Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dials++
	if f.err != nil {
		return nil, "", f.err
	}
	return f.client, f.client.network, nil
}

func (f *fakeFactory) dialCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

type fakeSink struct {
	mu       sync.Mutex
	subjects []string
	bodies   []string
	err      error
}

func (s *fakeSink) Send(_ context.Context, subject, body string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subjects = append(s.subjects, subject)
	s.bodies = append(s.bodies, body)
	if s.err != nil {
		return false, s.err
	}
	return true, nil
}

func (s *fakeSink) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.subjects...)
}

func testNode() config.NodeConfig {
	return config.NodeConfig{Host: "127.0.0.1", RPCPort: 9799, Network: "main"}
}

func testHandle(client *fakeClient, factory *fakeFactory, clk clock.Clock) *ConnectionHandle {
	return NewConnectionHandleFromSnapshot(&Snapshot{
		Client:        client,
		Network:       client.network,
		Node:          testNode(),
		GenesisDigest: testGenesis,
		Cache:         domain.NewUtxoCache(),
		ConnectedAt:   clk.Now(),
	}, factory, clk)
}

func testWatchdogConfig(clk clock.Clock, obs Observer) WatchdogConfig {
	return WatchdogConfig{
		Ticker:       ticker.NewForce(time.Hour),
		Clock:        clk,
		ProbeTimeout: time.Second,
		Observer:     obs,
	}
}

func nopLogger() logger.LoggerInterface {
	return logger.Nop()
}
