package app

import (
	"context"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/business/chain/domain"
)

func heights(hs ...domain.BlockHeight) []heightResult {
	out := make([]heightResult, len(hs))
	for i, h := range hs {
		out[i] = heightResult{height: h}
	}
	return out
}

func newLiveness(t *testing.T, client *fakeClient, sink *fakeSink) (*LivenessSupervisor, *clock.TestClock) {
	t.Helper()
	clk := clock.NewTestClock(testStart)
	sup, err := NewLivenessSupervisor(testWatchdogConfig(clk, nil), testHandle(client, &fakeFactory{client: client}, clk), sink, nopLogger())
	require.NoError(t, err)
	return sup, clk
}

func pollN(sup *LivenessSupervisor, clk *clock.TestClock, n int) {
	for i := 0; i < n; i++ {
		clk.SetTime(clk.Now().Add(time.Hour))
		sup.tick(context.Background())
	}
}

func TestLiveness_StallAlertsOnce(t *testing.T) {
	client := newFakeClient()
	client.heights = heights(10, 10, 10, 10)
	sink := &fakeSink{}
	sup, clk := newLiveness(t, client, sink)

	pollN(sup, clk, 4)

	require.Equal(t, []string{SubjectChainStalled}, sink.sent())
	require.Equal(t, domain.ChainWarn, sup.Status().State)
	require.Equal(t, domain.BlockHeight(10), sup.Status().LastHeight)
}

func TestLiveness_ShrinkThenRecover(t *testing.T) {
	client := newFakeClient()
	client.heights = heights(10, 9, 9, 11)
	sink := &fakeSink{}
	sup, clk := newLiveness(t, client, sink)

	pollN(sup, clk, 4)

	require.Equal(t, []string{SubjectChainShrinking, SubjectChainRecovered}, sink.sent())
	require.Equal(t, domain.ChainNormal, sup.Status().State)
	require.Contains(t, sink.bodies[0], "last_height: 10")
	require.Contains(t, sink.bodies[0], "height: 9")
}

func TestLiveness_GrowingChainIsQuiet(t *testing.T) {
	client := newFakeClient()
	client.heights = heights(1, 2, 3, 50)
	sink := &fakeSink{}
	sup, clk := newLiveness(t, client, sink)

	pollN(sup, clk, 4)

	require.Empty(t, sink.sent())
	require.Equal(t, domain.BlockHeight(50), sup.Status().LastHeight)
}

func TestLiveness_FailedPollIsNoData(t *testing.T) {
	client := newFakeClient()
	client.heights = []heightResult{
		{height: 10},
		{err: errUnreachable},
		{err: errUnreachable},
		{height: 11},
	}
	sink := &fakeSink{}
	sup, clk := newLiveness(t, client, sink)

	pollN(sup, clk, 3)
	require.Empty(t, sink.sent())
	require.Equal(t, domain.BlockHeight(10), sup.Status().LastHeight)
	require.Equal(t, domain.ChainNormal, sup.Status().State)
	require.NotEmpty(t, sup.Status().LastError)

	pollN(sup, clk, 1)
	require.Empty(t, sink.sent())
	require.Empty(t, sup.Status().LastError)
}

func TestLiveness_RunsOnTicks(t *testing.T) {
	client := newFakeClient()
	client.heights = heights(5, 5)
	sink := &fakeSink{}
	clk := clock.NewTestClock(testStart)
	cfg := testWatchdogConfig(clk, nil)
	force := cfg.Ticker.(*ticker.Force)

	sup, err := NewLivenessSupervisor(cfg, testHandle(client, &fakeFactory{client: client}, clk), sink, nopLogger())
	require.NoError(t, err)

	sup.Start()
	defer sup.Stop()

	force.Force <- time.Now()
	force.Force <- time.Now()
	require.Eventually(t, func() bool {
		return len(sink.sent()) == 1
	}, time.Second, 10*time.Millisecond)
}
