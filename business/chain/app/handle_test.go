package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/apperror"
)

func TestNewConnectionHandle(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	client := newFakeClient()

	h, err := NewConnectionHandle(context.Background(), &fakeFactory{client: client}, testNode(), clk)
	require.NoError(t, err)

	snap := h.Current()
	require.Equal(t, testGenesis, snap.GenesisDigest)
	require.Equal(t, domain.NetworkMain, snap.Network)
	require.Equal(t, testStart, snap.ConnectedAt)
	require.NotNil(t, snap.Cache)

	h.Close()
	require.True(t, client.closed)
}

func TestNewConnectionHandle_DialFailure(t *testing.T) {
	_, err := NewConnectionHandle(context.Background(), &fakeFactory{err: errUnreachable}, testNode(), clock.NewDefaultClock())
	require.ErrorIs(t, err, errUnreachable)
}

type noGenesisClient struct{ *fakeClient }

func (noGenesisClient) BlockDigest(context.Context, domain.BlockSelector) (fn.Option[domain.Digest], error) {
	return fn.None[domain.Digest](), nil
}

type noGenesisFactory struct{ client noGenesisClient }

func (f noGenesisFactory) Dial(context.Context) (RPCClient, domain.Network, error) {
	return f.client, domain.NetworkMain, nil
}

func TestNewConnectionHandle_MissingGenesis(t *testing.T) {
	client := noGenesisClient{newFakeClient()}
	_, err := NewConnectionHandle(context.Background(), noGenesisFactory{client}, testNode(), clock.NewDefaultClock())
	require.Equal(t, apperror.CodeBlockNotFound, apperror.GetCode(err))
	require.True(t, client.closed)
}

func TestReplace_ReadersSeeWholeSnapshots(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	h := testHandle(newFakeClient(), &fakeFactory{}, clk)

	var (
		wg         sync.WaitGroup
		mismatches atomic.Int64
	)
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s := h.Current()
				// Every snapshot written below pairs network with a
				// matching client.
				if s.Client.(*fakeClient).network != s.Network {
					mismatches.Add(1)
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		c := newFakeClient()
		if i%2 == 0 {
			c.network = domain.NetworkTestnet
		}
		prev := h.Current()
		h.Replace(&Snapshot{Client: c, Network: c.network, Node: prev.Node, GenesisDigest: prev.GenesisDigest, Cache: prev.Cache})
	}
	close(stop)
	wg.Wait()
	require.Zero(t, mismatches.Load())
}

func TestReconnect_FailureKeepsSnapshot(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	h := testHandle(newFakeClient(), &fakeFactory{err: apperror.External(apperror.CodeNodeUnavailable, "dial", errUnreachable)}, clk)
	before := h.Current()

	err := h.Reconnect(context.Background())
	require.Equal(t, apperror.CodeNodeUnavailable, apperror.GetCode(err))
	require.Same(t, before, h.Current())
}

func (f *fakeFactory) setClient(c *fakeClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.client = c
}

func TestReconnect_ClosesRetiredClient(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	first, second, third := newFakeClient(), newFakeClient(), newFakeClient()
	factory := &fakeFactory{client: second}
	h := testHandle(first, factory, clk)
	ctx := context.Background()

	require.NoError(t, h.Reconnect(ctx))
	require.Same(t, second, h.Current().Client)
	// Readers holding the first snapshot may still be mid-call.
	require.False(t, first.isClosed())

	factory.setClient(third)
	require.NoError(t, h.Reconnect(ctx))
	require.Same(t, third, h.Current().Client)
	require.True(t, first.isClosed())
	require.False(t, second.isClosed())
	require.False(t, third.isClosed())

	h.Close()
	require.True(t, second.isClosed())
	require.True(t, third.isClosed())
}

func TestReconnect_SameClientStaysOpen(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	client := newFakeClient()
	h := testHandle(client, &fakeFactory{client: client}, clk)

	for i := 0; i < 3; i++ {
		require.NoError(t, h.Reconnect(context.Background()))
	}
	require.Same(t, client, h.Current().Client)
	require.False(t, client.isClosed())
}
