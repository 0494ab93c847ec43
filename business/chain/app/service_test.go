package app

import (
	"context"
	"testing"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/apperror"
)

func serviceFixture() (*ExplorerService, *fakeClient) {
	client := newFakeClient()
	blockDigest := domain.Digest{0x42}
	info := domain.BlockInfo{Height: 7, Digest: blockDigest, NumAnnouncements: 2}
	client.blocks[domain.AtHeight(7).String()] = info
	client.blocks[domain.AtDigest(blockDigest).String()] = info
	client.anns[blockDigest] = []domain.Announcement{
		{Kind: domain.AnnouncementUnknown, Message: []uint64{1, 2, 3}},
		{
			Kind: domain.AnnouncementTransparentTxInfo,
			Inputs: []domain.TransparentInput{{
				AdditionRecord: domain.Digest{0x01},
				ReceiverDigest: domain.Digest{0x02},
				AOCLLeafIndex:  3,
				Amount:         "10",
			}},
			Outputs: []domain.TransparentOutput{{
				AdditionRecord: domain.Digest{0x03},
				ReceiverDigest: domain.Digest{0x04},
				Amount:         "9",
			}},
		},
	}
	client.utxos[3] = domain.Digest{0x33}
	client.utxos[4] = domain.Digest{0x44}

	clk := clock.NewTestClock(testStart)
	return NewExplorerService(testHandle(client, &fakeFactory{client: client}, clk)), client
}

func TestExplorerService_BlockInfo(t *testing.T) {
	svc, _ := serviceFixture()
	ctx := context.Background()

	info, err := svc.BlockInfo(ctx, domain.AtHeight(7))
	require.NoError(t, err)
	require.Equal(t, domain.BlockHeight(7), info.Height)

	_, err = svc.BlockInfo(ctx, domain.AtHeight(8))
	require.Equal(t, apperror.CodeBlockNotFound, apperror.GetCode(err))

	d, err := svc.BlockDigest(ctx, domain.Genesis())
	require.NoError(t, err)
	require.Equal(t, testGenesis, d)
	require.Equal(t, testGenesis, svc.GenesisDigest())
	require.Equal(t, domain.NetworkMain, svc.Network())
}

func TestExplorerService_AnnouncementEnrichesCache(t *testing.T) {
	svc, _ := serviceFixture()
	ctx := context.Background()

	view, err := svc.Announcement(ctx, domain.AnnouncementSelector{Block: domain.AtHeight(7), Index: 0})
	require.NoError(t, err)
	require.Equal(t, 2, view.Count)
	require.Empty(t, svc.CachedUtxos())

	view, err = svc.Announcement(ctx, domain.AnnouncementSelector{Block: domain.AtHeight(7), Index: 1})
	require.NoError(t, err)
	require.Equal(t, domain.AnnouncementTransparentTxInfo, view.Announcement.Kind)
	require.Len(t, svc.CachedUtxos(), 2)

	utxo, err := svc.Utxo(ctx, 3)
	require.NoError(t, err)
	require.True(t, utxo.Enriched.IsSome())
	tuple := utxo.Enriched.UnwrapOrFail(t)
	require.Equal(t, []domain.Digest{{0x42}}, tuple.SpentIn)

	utxo, err = svc.Utxo(ctx, 4)
	require.NoError(t, err)
	require.True(t, utxo.Enriched.IsNone())

	_, err = svc.Announcement(ctx, domain.AnnouncementSelector{Block: domain.AtHeight(7), Index: 2})
	require.Equal(t, apperror.CodeAnnouncementNotFound, apperror.GetCode(err))

	_, err = svc.Utxo(ctx, 99)
	require.Equal(t, apperror.CodeUtxoNotFound, apperror.GetCode(err))
}

func TestExplorerService_AnnouncementStaysOnOneClient(t *testing.T) {
	clk := clock.NewTestClock(testStart)
	client := newFakeClient()
	blockDigest := domain.Digest{0x42}
	info := domain.BlockInfo{Height: 7, Digest: blockDigest, NumAnnouncements: 1}
	client.blocks[domain.AtHeight(7).String()] = info
	client.anns[blockDigest] = []domain.Announcement{{Kind: domain.AnnouncementUnknown, Message: []uint64{5}}}

	handle := testHandle(client, &fakeFactory{client: client}, clk)
	svc := NewExplorerService(handle)

	// A reconnect lands between the two RPCs. The replacement node knows
	// nothing, so any call routed to it would surface as not found.
	fresh := newFakeClient()
	client.onBlockInfo = func() {
		prev := handle.Current()
		handle.Replace(&Snapshot{
			Client:        fresh,
			Network:       prev.Network,
			Node:          prev.Node,
			GenesisDigest: prev.GenesisDigest,
			Cache:         prev.Cache,
			ConnectedAt:   clk.Now(),
		})
	}

	view, err := svc.Announcement(context.Background(), domain.AnnouncementSelector{Block: domain.AtHeight(7), Index: 0})
	require.NoError(t, err)
	require.Equal(t, 1, view.Count)
	require.Equal(t, []uint64{5}, view.Announcement.Message)
	require.Equal(t, 2, client.rpcCount())
	require.Zero(t, fresh.rpcCount())
	require.Same(t, fresh, handle.Current().Client)
}
