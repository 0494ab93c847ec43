package domain_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fd1az/chain-explorer/business/chain/domain"
)

func TestUtxoTuple_MergeRules(t *testing.T) {
	blockA := domain.Digest{0xa}
	blockB := domain.Digest{0xb}
	receiver := domain.Digest{0x01}

	tuple := domain.TupleFromOutput(domain.TransparentOutput{
		AdditionRecord: domain.Digest{0x10},
		ReceiverDigest: receiver,
		Amount:         "5",
	}, blockA)

	require.Nil(t, tuple.ReceiverPreimage)
	require.Equal(t, blockA, *tuple.ConfirmedIn)

	require.False(t, tuple.SetReceiverPreimage([]uint64{1, 2}, domain.Digest{0x02}), "digest mismatch")
	require.True(t, tuple.SetReceiverPreimage([]uint64{1, 2}, receiver))
	require.False(t, tuple.SetReceiverPreimage([]uint64{3}, receiver), "already set")
	require.Equal(t, []uint64{1, 2}, tuple.ReceiverPreimage)

	require.False(t, tuple.SetConfirmedInBlock(blockB))
	require.Equal(t, blockA, *tuple.ConfirmedIn)

	require.True(t, tuple.SetSpentInBlock(blockB))
	require.False(t, tuple.SetSpentInBlock(blockB))
	require.Equal(t, []domain.Digest{blockB}, tuple.SpentIn)
}

func TestUtxoCache_RecordAndLookup(t *testing.T) {
	cache := domain.NewUtxoCache()
	ar := domain.Digest{0x20}
	receiver := domain.Digest{0x21}
	confirmed := domain.Digest{0x22}
	spent := domain.Digest{0x23}

	cache.RecordOutput(domain.TransparentOutput{AdditionRecord: ar, ReceiverDigest: receiver, Amount: "7"}, confirmed)
	cache.RecordInput(domain.TransparentInput{
		AdditionRecord:   ar,
		ReceiverDigest:   receiver,
		ReceiverPreimage: []uint64{9},
		AOCLLeafIndex:    77,
		Amount:           "7",
	}, spent)
	cache.RecordInput(domain.TransparentInput{AdditionRecord: ar, ReceiverDigest: receiver, AOCLLeafIndex: 77}, spent)

	require.Equal(t, 1, cache.Len())

	tuple, ok := cache.ByAdditionRecord(ar)
	require.True(t, ok)
	require.Equal(t, confirmed, *tuple.ConfirmedIn)
	require.Equal(t, []domain.Digest{spent}, tuple.SpentIn)
	require.Equal(t, []uint64{9}, tuple.ReceiverPreimage)

	byLeaf, ok := cache.ByLeafIndex(77)
	require.True(t, ok)
	require.Equal(t, tuple, byLeaf)

	_, ok = cache.ByLeafIndex(78)
	require.False(t, ok)

	// Returned tuples are copies.
	tuple.SpentIn[0] = domain.Digest{}
	again, _ := cache.ByAdditionRecord(ar)
	require.Equal(t, spent, again.SpentIn[0])
}

func TestUtxoCache_ConcurrentWriters(t *testing.T) {
	cache := domain.NewUtxoCache()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ar := domain.Digest{byte(i % 8)}
			cache.RecordOutput(domain.TransparentOutput{AdditionRecord: ar}, domain.Digest{0xff})
			cache.RecordInput(domain.TransparentInput{AdditionRecord: ar, AOCLLeafIndex: uint64(i % 8)}, domain.Digest{byte(i)})
		}(i)
	}
	wg.Wait()

	require.Equal(t, 8, cache.Len())
	for _, tuple := range cache.Snapshot() {
		require.Len(t, tuple.SpentIn, 4)
	}
}

func TestUtxoCache_RecordInputKeepsPreimageOfOwnReceiver(t *testing.T) {
	cache := domain.NewUtxoCache()
	ar := domain.Digest{0x30}
	receiver := domain.Digest{0x31}
	block := domain.Digest{0x32}

	cache.RecordOutput(domain.TransparentOutput{AdditionRecord: ar, ReceiverDigest: receiver}, block)

	// Preimage reported against some other receiver.
	cache.RecordInput(domain.TransparentInput{
		AdditionRecord:   ar,
		ReceiverDigest:   domain.Digest{0x99},
		ReceiverPreimage: []uint64{4, 4},
	}, block)
	tuple, _ := cache.ByAdditionRecord(ar)
	require.Nil(t, tuple.ReceiverPreimage)
	require.Equal(t, receiver, tuple.ReceiverDigest)

	cache.RecordInput(domain.TransparentInput{AdditionRecord: ar, ReceiverDigest: receiver, ReceiverPreimage: []uint64{}}, block)
	tuple, _ = cache.ByAdditionRecord(ar)
	require.Nil(t, tuple.ReceiverPreimage, "empty preimage is not a preimage")

	cache.RecordInput(domain.TransparentInput{AdditionRecord: ar, ReceiverDigest: receiver, ReceiverPreimage: []uint64{5}}, block)
	tuple, _ = cache.ByAdditionRecord(ar)
	require.Equal(t, []uint64{5}, tuple.ReceiverPreimage)

	fresh := domain.TupleFromInput(domain.TransparentInput{AdditionRecord: domain.Digest{0x40}, ReceiverPreimage: []uint64{}}, block)
	require.Nil(t, fresh.ReceiverPreimage)
}
