package app

import (
	"context"
	"strconv"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/fd1az/chain-explorer/business/chain/domain"
	"github.com/fd1az/chain-explorer/internal/apperror"
)

// ExplorerService answers read-only chain queries against the current
// connection snapshot.
type ExplorerService struct {
	handle *ConnectionHandle
}

// NewExplorerService creates a new ExplorerService.
func NewExplorerService(handle *ConnectionHandle) *ExplorerService {
	return &ExplorerService{handle: handle}
}

// Network returns the network of the current snapshot.
func (s *ExplorerService) Network() domain.Network {
	return s.handle.Current().Network
}

// GenesisDigest returns the digest learned at startup.
func (s *ExplorerService) GenesisDigest() domain.Digest {
	return s.handle.Current().GenesisDigest
}

// Tip returns the current tip height.
func (s *ExplorerService) Tip(ctx context.Context) (domain.BlockHeight, error) {
	return s.handle.Current().Client.BlockHeight(ctx)
}

// BlockInfo returns the block named by sel.
func (s *ExplorerService) BlockInfo(ctx context.Context, sel domain.BlockSelector) (domain.BlockInfo, error) {
	return blockInfo(ctx, s.handle.Current().Client, sel)
}

func blockInfo(ctx context.Context, client RPCClient, sel domain.BlockSelector) (domain.BlockInfo, error) {
	info, err := client.BlockInfo(ctx, sel)
	if err != nil {
		return domain.BlockInfo{}, err
	}
	return info.UnwrapOrErr(apperror.NotFound(apperror.CodeBlockNotFound, sel.String()))
}

// BlockDigest returns the digest of the block named by sel.
func (s *ExplorerService) BlockDigest(ctx context.Context, sel domain.BlockSelector) (domain.Digest, error) {
	d, err := s.handle.Current().Client.BlockDigest(ctx, sel)
	if err != nil {
		return domain.Digest{}, err
	}
	return d.UnwrapOrErr(apperror.NotFound(apperror.CodeBlockNotFound, sel.String()))
}

// UtxoDigest returns the AOCL leaf digest at leafIndex.
func (s *ExplorerService) UtxoDigest(ctx context.Context, leafIndex uint64) (domain.Digest, error) {
	d, err := s.handle.Current().Client.UtxoDigest(ctx, leafIndex)
	if err != nil {
		return domain.Digest{}, err
	}
	return d.UnwrapOrErr(apperror.NotFound(apperror.CodeUtxoNotFound, strconv.FormatUint(leafIndex, 10)))
}

// UtxoView is a UTXO digest plus whatever announcements revealed about it.
type UtxoView struct {
	LeafIndex uint64
	Digest    domain.Digest
	Enriched  fn.Option[domain.UtxoTuple]
}

// Utxo returns the UTXO at leafIndex together with cached enrichment.
func (s *ExplorerService) Utxo(ctx context.Context, leafIndex uint64) (UtxoView, error) {
	d, err := s.UtxoDigest(ctx, leafIndex)
	if err != nil {
		return UtxoView{}, err
	}

	view := UtxoView{LeafIndex: leafIndex, Digest: d, Enriched: fn.None[domain.UtxoTuple]()}
	if tuple, ok := s.handle.Current().Cache.ByLeafIndex(leafIndex); ok {
		view.Enriched = fn.Some(tuple)
	}
	return view, nil
}

// AnnouncementView is one announcement and the block carrying it.
type AnnouncementView struct {
	Selector     domain.AnnouncementSelector
	Block        domain.BlockInfo
	Count        int
	Announcement domain.Announcement
}

// Announcement returns the announcement named by sel. Transparent
// announcements are folded into the UTXO cache. Every RPC goes through the
// snapshot taken on entry, so a reconnect midway cannot mix two clients.
func (s *ExplorerService) Announcement(ctx context.Context, sel domain.AnnouncementSelector) (AnnouncementView, error) {
	snap := s.handle.Current()

	info, err := blockInfo(ctx, snap.Client, sel.Block)
	if err != nil {
		return AnnouncementView{}, err
	}

	// Resolve by digest so both calls see the same block even if the tip
	// moves in between.
	opt, err := snap.Client.AnnouncementsInBlock(ctx, domain.AtDigest(info.Digest))
	if err != nil {
		return AnnouncementView{}, err
	}
	notFound := apperror.NotFound(apperror.CodeAnnouncementNotFound, sel.String())
	list, err := opt.UnwrapOrErr(notFound)
	if err != nil {
		return AnnouncementView{}, err
	}
	if sel.Index >= uint64(len(list)) {
		return AnnouncementView{}, notFound
	}

	ann := list[sel.Index]
	if ann.Kind == domain.AnnouncementTransparentTxInfo {
		for _, in := range ann.Inputs {
			snap.Cache.RecordInput(in, info.Digest)
		}
		for _, out := range ann.Outputs {
			snap.Cache.RecordOutput(out, info.Digest)
		}
	}

	return AnnouncementView{
		Selector:     sel,
		Block:        info,
		Count:        len(list),
		Announcement: ann,
	}, nil
}

// CachedUtxos returns every enrichment tuple gathered so far.
func (s *ExplorerService) CachedUtxos() []domain.UtxoTuple {
	return s.handle.Current().Cache.Snapshot()
}
