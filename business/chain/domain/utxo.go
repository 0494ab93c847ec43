package domain

import (
	"slices"
	"sync"
)

// TransparentInput is a spent UTXO revealed by a transparent announcement.
type TransparentInput struct {
	AdditionRecord   Digest   `json:"addition_record"`
	ReceiverDigest   Digest   `json:"receiver_digest"`
	ReceiverPreimage []uint64 `json:"receiver_preimage"`
	AOCLLeafIndex    uint64   `json:"aocl_leaf_index"`
	Amount           string   `json:"amount"`
}

// TransparentOutput is a UTXO created by a transparent transaction.
type TransparentOutput struct {
	AdditionRecord Digest `json:"addition_record"`
	ReceiverDigest Digest `json:"receiver_digest"`
	Amount         string `json:"amount"`
}

// UtxoTuple is everything learned about one UTXO from announcements.
type UtxoTuple struct {
	AdditionRecord   Digest   `json:"addition_record"`
	ReceiverDigest   Digest   `json:"receiver_digest"`
	ReceiverPreimage []uint64 `json:"receiver_preimage,omitempty"`
	AOCLLeafIndex    *uint64  `json:"aocl_leaf_index,omitempty"`
	Amount           string   `json:"amount"`
	ConfirmedIn      *Digest  `json:"confirmed_in_block,omitempty"`
	SpentIn          []Digest `json:"spent_in_block,omitempty"`
}

// TupleFromInput builds a tuple for an input spent in block.
func TupleFromInput(in TransparentInput, block Digest) UtxoTuple {
	leaf := in.AOCLLeafIndex
	var preimage []uint64
	if len(in.ReceiverPreimage) > 0 {
		preimage = slices.Clone(in.ReceiverPreimage)
	}
	return UtxoTuple{
		AdditionRecord:   in.AdditionRecord,
		ReceiverDigest:   in.ReceiverDigest,
		ReceiverPreimage: preimage,
		AOCLLeafIndex:    &leaf,
		Amount:           in.Amount,
		SpentIn:          []Digest{block},
	}
}

// TupleFromOutput builds a tuple for an output confirmed in block.
func TupleFromOutput(out TransparentOutput, block Digest) UtxoTuple {
	b := block
	return UtxoTuple{
		AdditionRecord: out.AdditionRecord,
		ReceiverDigest: out.ReceiverDigest,
		Amount:         out.Amount,
		ConfirmedIn:    &b,
	}
}

// SetReceiverPreimage records the preimage if none is known and its digest
// matches the receiver digest. An empty preimage never counts as known.
// It reports whether the tuple changed.
func (t *UtxoTuple) SetReceiverPreimage(preimage []uint64, preimageDigest Digest) bool {
	if len(preimage) == 0 || t.ReceiverPreimage != nil || preimageDigest != t.ReceiverDigest {
		return false
	}
	t.ReceiverPreimage = slices.Clone(preimage)
	return true
}

// SetSpentInBlock adds block to the spending blocks if absent.
func (t *UtxoTuple) SetSpentInBlock(block Digest) bool {
	if slices.Contains(t.SpentIn, block) {
		return false
	}
	t.SpentIn = append(t.SpentIn, block)
	return true
}

// SetConfirmedInBlock sets the confirming block once.
func (t *UtxoTuple) SetConfirmedInBlock(block Digest) bool {
	if t.ConfirmedIn != nil {
		return false
	}
	b := block
	t.ConfirmedIn = &b
	return true
}

// SetLeafIndex sets the AOCL leaf index once.
func (t *UtxoTuple) SetLeafIndex(i uint64) bool {
	if t.AOCLLeafIndex != nil {
		return false
	}
	t.AOCLLeafIndex = &i
	return true
}

func (t UtxoTuple) clone() UtxoTuple {
	c := t
	c.ReceiverPreimage = slices.Clone(t.ReceiverPreimage)
	c.SpentIn = slices.Clone(t.SpentIn)
	if t.AOCLLeafIndex != nil {
		i := *t.AOCLLeafIndex
		c.AOCLLeafIndex = &i
	}
	if t.ConfirmedIn != nil {
		d := *t.ConfirmedIn
		c.ConfirmedIn = &d
	}
	return c
}

// UtxoCache is an ordered, process-local set of UtxoTuples keyed by
// addition record. It is shared across connection snapshots and grows
// without bound.
type UtxoCache struct {
	mu     sync.Mutex
	tuples []UtxoTuple
}

// NewUtxoCache returns an empty cache.
func NewUtxoCache() *UtxoCache {
	return &UtxoCache{}
}

// RecordInput merges an input spent in block.
func (c *UtxoCache) RecordInput(in TransparentInput, block Digest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(in.AdditionRecord)
	if i < 0 {
		c.tuples = append(c.tuples, TupleFromInput(in, block))
		return
	}

	t := &c.tuples[i]
	// The explorer cannot hash a preimage itself, so the digest the node
	// reports next to it in the same input is taken as its hash. A
	// preimage reported against another receiver is dropped.
	t.SetReceiverPreimage(in.ReceiverPreimage, in.ReceiverDigest)
	t.SetSpentInBlock(block)
	t.SetLeafIndex(in.AOCLLeafIndex)
}

// RecordOutput merges an output confirmed in block.
func (c *UtxoCache) RecordOutput(out TransparentOutput, block Digest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(out.AdditionRecord)
	if i < 0 {
		c.tuples = append(c.tuples, TupleFromOutput(out, block))
		return
	}
	c.tuples[i].SetConfirmedInBlock(block)
}

// ByAdditionRecord returns a copy of the tuple for ar.
func (c *UtxoCache) ByAdditionRecord(ar Digest) (UtxoTuple, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(ar)
	if i < 0 {
		return UtxoTuple{}, false
	}
	return c.tuples[i].clone(), true
}

// ByLeafIndex returns a copy of the tuple with the given AOCL leaf index.
func (c *UtxoCache) ByLeafIndex(leaf uint64) (UtxoTuple, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.tuples {
		if t.AOCLLeafIndex != nil && *t.AOCLLeafIndex == leaf {
			return t.clone(), true
		}
	}
	return UtxoTuple{}, false
}

// Len returns the number of tuples.
func (c *UtxoCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tuples)
}

// Snapshot returns copies of all tuples in insertion order.
func (c *UtxoCache) Snapshot() []UtxoTuple {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]UtxoTuple, len(c.tuples))
	for i, t := range c.tuples {
		out[i] = t.clone()
	}
	return out
}

func (c *UtxoCache) find(ar Digest) int {
	return slices.IndexFunc(c.tuples, func(t UtxoTuple) bool {
		return t.AdditionRecord == ar
	})
}
