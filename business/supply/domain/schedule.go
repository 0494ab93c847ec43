// Package domain contains the emission schedule and the supply calculation.
package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/fd1az/chain-explorer/internal/asset"
)

// Default mainnet emission constants.
const (
	DefaultPremineCoins        = 831_600
	DefaultGenesisSubsidyCoins = 128
	DefaultBlocksPerGeneration = 160_815
	DefaultRebootOffset        = 21_310
	DefaultBurnedCoins         = "1526642.2"
)

// ErrBurnExceedsSupply is returned when the burned amount is larger than
// what the schedule has minted at the requested height.
var ErrBurnExceedsSupply = errors.New("supply: burned amount exceeds minted supply")

// Schedule describes how coins come into existence.
//
// Every block mints GenesisSubsidy in generation 0 and half of the previous
// generation's subsidy afterwards. Half of each subsidy is liquid at once;
// the other half is timelocked for one generation.
type Schedule struct {
	Premine             asset.Amount
	GenesisSubsidy      asset.Amount
	BlocksPerGeneration uint64
	// RebootOffset is the number of blocks mined before a historical reboot.
	// It is added to every height above genesis.
	RebootOffset uint64
	Burned       asset.Amount
}

// NewSchedule builds a Schedule from whole-coin constants. burned is a
// decimal coin string.
func NewSchedule(premineCoins, subsidyCoins int64, blocksPerGeneration, rebootOffset uint64, burned string) (Schedule, error) {
	if premineCoins < 0 || subsidyCoins < 0 {
		return Schedule{}, fmt.Errorf("supply: negative premine or subsidy")
	}
	if blocksPerGeneration == 0 {
		return Schedule{}, fmt.Errorf("supply: blocks per generation must be positive")
	}

	burn, err := asset.ParseString(asset.NPT, burned)
	if err != nil {
		return Schedule{}, fmt.Errorf("supply: burned amount: %w", err)
	}

	return Schedule{
		Premine:             asset.Coins(asset.NPT, premineCoins),
		GenesisSubsidy:      asset.Coins(asset.NPT, subsidyCoins),
		BlocksPerGeneration: blocksPerGeneration,
		RebootOffset:        rebootOffset,
		Burned:              burn,
	}, nil
}

// DefaultSchedule returns the mainnet schedule.
func DefaultSchedule() Schedule {
	s, err := NewSchedule(DefaultPremineCoins, DefaultGenesisSubsidyCoins,
		DefaultBlocksPerGeneration, DefaultRebootOffset, DefaultBurnedCoins)
	if err != nil {
		panic(err)
	}
	return s
}

// Report is the supply at one height. Liquid never exceeds Total.
type Report struct {
	Height uint64
	Liquid asset.Amount
	Total  asset.Amount
}

// effectiveHeight applies the reboot offset, saturating at MaxUint64.
func (s Schedule) effectiveHeight(height uint64) uint64 {
	if height == 0 {
		return 0
	}
	if height > math.MaxUint64-s.RebootOffset {
		return math.MaxUint64
	}
	return height + s.RebootOffset
}

// Supply computes liquid and total supply at height. All arithmetic is
// exact; halving stops contributing once the subsidy reaches zero.
//
// The burn is subtracted last and an amount never goes negative, so
// Supply returns ErrBurnExceedsSupply whenever the burn exceeds what has
// been minted. With DefaultSchedule that is exactly height 0: the burn is
// larger than the premine, while the reboot offset makes every height
// above genesis mint enough to cover it.
func (s Schedule) Supply(height uint64) (Report, error) {
	n := s.BlocksPerGeneration
	eff := s.effectiveHeight(height)
	generations, inCurrent := eff/n, eff%n

	liquid := s.Premine
	total := s.Premine

	// Immediately liquid half of every subsidy. Total counts both halves.
	subsidy := s.GenesisSubsidy.Half()
	for g := uint64(0); g < generations && !subsidy.IsZero(); g++ {
		full := subsidy.Times(n)
		liquid = liquid.MustAdd(full)
		total = total.MustAdd(full.Times(2))
		subsidy = subsidy.Half()
	}
	current := subsidy.Times(inCurrent)
	liquid = liquid.MustAdd(current)
	total = total.MustAdd(current.Times(2))

	// Timelocked halves unlock one generation later. Generation 0's locked
	// half starts unlocking in generation 1.
	released := s.GenesisSubsidy.Half()
	for g := uint64(1); g < generations && !released.IsZero(); g++ {
		liquid = liquid.MustAdd(released.Times(n))
		released = released.Half()
	}
	if generations > 0 {
		liquid = liquid.MustAdd(released.Times(inCurrent))
	}

	liquid, err := liquid.Sub(s.Burned)
	if err != nil {
		return Report{}, fmt.Errorf("height %d: %w", height, ErrBurnExceedsSupply)
	}
	total, err = total.Sub(s.Burned)
	if err != nil {
		return Report{}, fmt.Errorf("height %d: %w", height, ErrBurnExceedsSupply)
	}

	return Report{Height: height, Liquid: liquid, Total: total}, nil
}
