// Package domain contains the core domain types for the chain context.
package domain

// Network identifies which chain the node serves.
type Network string

const (
	NetworkMain    Network = "main"
	NetworkTestnet Network = "testnet"
	NetworkRegtest Network = "regtest"
	NetworkUnknown Network = "unknown"
)

// ParseNetwork maps a node-reported name onto a Network.
func ParseNetwork(s string) Network {
	switch Network(s) {
	case NetworkMain, NetworkTestnet, NetworkRegtest:
		return Network(s)
	default:
		return NetworkUnknown
	}
}

func (n Network) String() string { return string(n) }
