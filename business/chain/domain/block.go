package domain

import "time"

// BlockInfo summarises a block as reported by the node.
type BlockInfo struct {
	Height           BlockHeight `json:"height"`
	Digest           Digest      `json:"digest"`
	PrevDigest       Digest      `json:"prev_block_digest"`
	Timestamp        time.Time   `json:"timestamp"`
	NumAnnouncements int         `json:"num_announcements"`
	NumInputs        int         `json:"num_inputs"`
	NumOutputs       int         `json:"num_outputs"`
	Difficulty       string      `json:"difficulty"`
	CoinbaseAmount   string      `json:"coinbase_amount"`
	Fee              string      `json:"fee"`
	IsGenesis        bool        `json:"is_genesis"`
	IsTip            bool        `json:"is_tip"`
	IsCanonical      bool        `json:"is_canonical"`
}

// AnnouncementKind classifies announcement payloads.
type AnnouncementKind string

const (
	AnnouncementTransparentTxInfo AnnouncementKind = "transparent_tx_info"
	AnnouncementUnknown           AnnouncementKind = "unknown"
)

// Announcement is an opaque message attached to a block. Transparent
// announcements also list the inputs and outputs of the transaction.
type Announcement struct {
	Kind    AnnouncementKind    `json:"kind"`
	Message []uint64            `json:"message"`
	Inputs  []TransparentInput  `json:"inputs,omitempty"`
	Outputs []TransparentOutput `json:"outputs,omitempty"`
}

// ConnectionState is the connectivity watchdog state.
type ConnectionState string

const (
	StateConnected    ConnectionState = "connected"
	StateDisconnected ConnectionState = "disconnected"
)

// ChainState is the liveness watchdog state.
type ChainState string

const (
	ChainNormal ChainState = "normal"
	ChainWarn   ChainState = "warn"
)
