// Package asset models coin amounts exactly. Arithmetic runs on big.Int in
// the smallest unit; decimal.Decimal only appears when rendering or
// parsing human input.
package asset

import "math/big"

// Asset describes a coin. Unit is the number of smallest units per whole
// coin and need not be a power of ten.
type Asset struct {
	symbol string
	unit   *big.Int
	scale  int32 // decimal places needed to render one smallest unit exactly
}

func NewAsset(symbol string, unit *big.Int, scale int32) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if unit == nil || unit.Sign() <= 0 {
		panic("asset: unit must be positive")
	}
	return &Asset{symbol: symbol, unit: new(big.Int).Set(unit), scale: scale}
}

// NPT is the native coin. One coin is 4 * 10^30 nau, so a single nau
// needs 32 decimal places.
var NPT = NewAsset("NPT", new(big.Int).Mul(big.NewInt(4), new(big.Int).Exp(big.NewInt(10), big.NewInt(30), nil)), 32)

func (a *Asset) Symbol() string {
	return a.symbol
}

func (a *Asset) String() string {
	return a.symbol
}

// Equals compares symbol and unit. Two nil assets are equal.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.symbol == other.symbol && a.unit.Cmp(other.unit) == 0
}
