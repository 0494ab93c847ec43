package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	ErrNilAsset        = errors.New("asset: nil asset")
	ErrNegativeAmount  = errors.New("asset: negative amount")
	ErrAssetMismatch   = errors.New("asset: cannot operate on different assets")
	ErrNegativeResult  = errors.New("asset: operation would result in negative amount")
	ErrTooManyDecimals = errors.New("asset: value is finer than the smallest unit")
)

// Amount is an immutable non-negative quantity of an asset, held in the
// asset's smallest unit. The zero Amount has no asset and renders as 0.
type Amount struct {
	raw   *big.Int
	asset *Asset
}

// owned wraps raw without copying. Callers hand over a fresh big.Int.
func owned(a *Asset, raw *big.Int) Amount {
	return Amount{raw: raw, asset: a}
}

// Coins returns n whole coins of a.
func Coins(a *Asset, n int64) Amount {
	if a == nil {
		panic(ErrNilAsset)
	}
	if n < 0 {
		panic(ErrNegativeAmount)
	}
	return owned(a, new(big.Int).Mul(big.NewInt(n), a.unit))
}

// Units returns n smallest units of a.
func Units(a *Asset, n uint64) Amount {
	if a == nil {
		panic(ErrNilAsset)
	}
	return owned(a, new(big.Int).SetUint64(n))
}

func (a Amount) IsZero() bool {
	return a.raw == nil || a.raw.Sign() == 0
}

func (a Amount) IsPositive() bool {
	return a.raw != nil && a.raw.Sign() > 0
}

func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.sameAsset(b); err != nil {
		return Amount{}, err
	}
	return owned(a.asset, new(big.Int).Add(a.raw, b.raw)), nil
}

// MustAdd is Add for amounts known to share an asset.
func (a Amount) MustAdd(b Amount) Amount {
	sum, err := a.Add(b)
	if err != nil {
		panic(err)
	}
	return sum
}

// Sub returns a-b. Amounts never go negative, so b > a is an error.
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.sameAsset(b); err != nil {
		return Amount{}, err
	}
	if a.raw.Cmp(b.raw) < 0 {
		return Amount{}, ErrNegativeResult
	}
	return owned(a.asset, new(big.Int).Sub(a.raw, b.raw)), nil
}

func (a Amount) MustSub(b Amount) Amount {
	diff, err := a.Sub(b)
	if err != nil {
		panic(err)
	}
	return diff
}

// Times multiplies by factor.
func (a Amount) Times(factor uint64) Amount {
	return owned(a.asset, new(big.Int).Mul(a.big(), new(big.Int).SetUint64(factor)))
}

// Half rounds down.
func (a Amount) Half() Amount {
	return owned(a.asset, new(big.Int).Rsh(a.big(), 1))
}

// Equals reports same asset and same value.
func (a Amount) Equals(b Amount) bool {
	return a.asset.Equals(b.asset) && a.big().Cmp(b.big()) == 0
}

func (a Amount) LessThanOrEqual(b Amount) (bool, error) {
	if err := a.sameAsset(b); err != nil {
		return false, err
	}
	return a.raw.Cmp(b.raw) <= 0, nil
}

// ToDecimal renders a in whole coins, exact to the asset's scale. Use it
// for display; arithmetic stays on Amount.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.raw == nil || a.asset == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(a.raw, 0).DivRound(decimal.NewFromBigInt(a.asset.unit, 0), a.asset.scale)
}

// ParseString reads a decimal coin string such as "1526642.2".
func ParseString(a *Asset, s string) (Amount, error) {
	if a == nil {
		return Amount{}, ErrNilAsset
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("asset: invalid decimal string: %w", err)
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	scaled := d.Mul(decimal.NewFromBigInt(a.unit, 0))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, ErrTooManyDecimals
	}
	return owned(a, scaled.BigInt()), nil
}

// RawString is the smallest-unit count in base 10.
func (a Amount) RawString() string {
	return a.big().String()
}

// RawFloat64 is the smallest-unit count as a float. Precision is lost
// above 2^53; the exact value is RawString.
func (a Amount) RawFloat64() float64 {
	f, _ := new(big.Float).SetInt(a.big()).Float64()
	return f
}

// String renders e.g. "1.5 NPT".
func (a Amount) String() string {
	if a.asset == nil {
		return "0"
	}
	return a.ToDecimal().String() + " " + a.asset.Symbol()
}

func (a Amount) StringFixed(places int32) string {
	if a.asset == nil {
		return "0"
	}
	return a.ToDecimal().StringFixed(places) + " " + a.asset.Symbol()
}

func (a Amount) big() *big.Int {
	if a.raw == nil {
		return new(big.Int)
	}
	return a.raw
}

func (a Amount) sameAsset(b Amount) error {
	if a.asset == nil || b.asset == nil {
		return ErrNilAsset
	}
	if !a.asset.Equals(b.asset) {
		return fmt.Errorf("%w: %s vs %s", ErrAssetMismatch, a.asset.Symbol(), b.asset.Symbol())
	}
	return nil
}
