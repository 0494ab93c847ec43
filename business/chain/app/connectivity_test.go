package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/business/chain/domain"
)

func TestConnectivity_OneAlertPerTransition(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	client := newFakeClient()
	client.networkErrs = []error{errUnreachable, errUnreachable, errUnreachable}
	factory := &fakeFactory{err: errUnreachable}
	sink := &fakeSink{}

	sup, err := NewConnectivitySupervisor(testWatchdogConfig(clk, nil), testHandle(client, factory, clk), sink, nopLogger())
	require.NoError(t, err)
	require.Equal(t, domain.StateConnected, sup.Status().State)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		clk.SetTime(testStart.Add(time.Duration(i+1) * time.Minute))
		sup.tick(ctx)
	}

	require.Equal(t, []string{SubjectRPCOutage}, sink.sent())
	require.Equal(t, 3, factory.dialCount())
	require.Equal(t, domain.StateDisconnected, sup.Status().State)
	require.Equal(t, uint64(3), sup.Status().Reconnects)

	clk.SetTime(testStart.Add(10 * time.Minute))
	sup.tick(ctx)

	require.Equal(t, []string{SubjectRPCOutage, SubjectRPCRecovered}, sink.sent())
	require.Equal(t, 3, factory.dialCount(), "no reconnect while connected")
	require.Equal(t, domain.StateConnected, sup.Status().State)
	require.Contains(t, sink.bodies[1], "was_connected: false")
	require.Contains(t, sink.bodies[1], "duration: 9m0s")
}

func TestConnectivity_NoAlertWhileHealthy(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	client := newFakeClient()
	sink := &fakeSink{}

	sup, err := NewConnectivitySupervisor(testWatchdogConfig(clk, nil), testHandle(client, &fakeFactory{client: client}, clk), sink, nopLogger())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		sup.tick(context.Background())
	}
	require.Empty(t, sink.sent())
	require.Equal(t, 5, client.probes)
}

func TestConnectivity_ReconnectSwapsSnapshot(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	broken := newFakeClient()
	broken.networkErrs = []error{errUnreachable}
	healthy := newFakeClient()
	factory := &fakeFactory{client: healthy}
	handle := testHandle(broken, factory, clk)
	before := handle.Current()

	sup, err := NewConnectivitySupervisor(testWatchdogConfig(clk, nil), handle, &fakeSink{}, nopLogger())
	require.NoError(t, err)

	sup.tick(context.Background())

	after := handle.Current()
	require.NotSame(t, before, after)
	require.Same(t, healthy, after.Client)
	require.Same(t, before.Cache, after.Cache)
	require.Equal(t, before.GenesisDigest, after.GenesisDigest)
	require.Equal(t, before.Node, after.Node)

	sup.tick(context.Background())
	require.Equal(t, domain.StateConnected, sup.Status().State)
}

func TestConnectivity_SinkFailureIsSwallowed(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	client := newFakeClient()
	client.networkErrs = []error{errUnreachable}
	sink := &fakeSink{err: errors.New("smtp down")}

	var events []Event
	sup, err := NewConnectivitySupervisor(
		testWatchdogConfig(clk, func(e Event) { events = append(events, e) }),
		testHandle(client, &fakeFactory{err: errUnreachable}, clk), sink, nopLogger())
	require.NoError(t, err)

	sup.tick(context.Background())
	sup.tick(context.Background())

	require.Equal(t, []string{SubjectRPCOutage, SubjectRPCRecovered}, sink.sent())
	require.Len(t, events, 2)
	require.False(t, events[0].Sent)
}

func TestConnectivity_RunsOnTicks(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	client := newFakeClient()
	client.networkErrs = []error{errUnreachable}
	sink := &fakeSink{}
	cfg := testWatchdogConfig(clk, nil)
	force := cfg.Ticker.(*ticker.Force)

	sup, err := NewConnectivitySupervisor(cfg, testHandle(client, &fakeFactory{err: errUnreachable}, clk), sink, nopLogger())
	require.NoError(t, err)

	sup.Start()
	defer sup.Stop()

	force.Force <- time.Now()
	require.Eventually(t, func() bool {
		return len(sink.sent()) == 1
	}, time.Second, 10*time.Millisecond)
}
