// Package token defines the issuance-token state and event payloads.
package token

import (
	"time"

	"github.com/xraph/economy/id"
	"github.com/xraph/economy/types"
)

// Revenue split of every mint, in basis points. The provider receives the
// remainder so integer rounding never destroys value.
const (
	TreasuryShareBps      = 1000 // 10%
	LiquidityPoolShareBps = 500  // 5%
)

// MaxRateDeltaPct bounds relative changes to an established minting rate.
const MaxRateDeltaPct = 20

// DefaultMintingRates seeds the rate table at genesis. Rates are
// fixed-point with scale types.RateScale (1/1000).
func DefaultMintingRates() map[string]int64 {
	return map[string]int64{
		"claude-3-opus":   1000,
		"claude-3-sonnet": 500,
		"gpt-4-turbo":     800,
		"gpt-3.5-turbo":   100,
		"seedance-2.0":    10000,
	}
}

// Metadata is the protocol-level token state. It is persisted once at
// genesis and mutated only by governance-gated address updates.
type Metadata struct {
	types.Entity
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Admin         string `json:"admin"`
	Treasury      string `json:"treasury"`
	LiquidityPool string `json:"liquidity_pool"`
}

// Genesis are the parameters of the one-time protocol initialization.
type Genesis struct {
	Name          string
	Symbol        string
	Admin         string
	Treasury      string
	LiquidityPool string
}

// MintSplit is the outcome of one usage-driven mint. The invariant
// Provider + Treasury + LiquidityPool == Total holds exactly.
type MintSplit struct {
	Total         int64 `json:"total"`
	Provider      int64 `json:"provider"`
	Treasury      int64 `json:"treasury"`
	LiquidityPool int64 `json:"liquidity_pool"`
}

// Split computes the revenue split for a minted amount. Rounding
// remainders accrue to the provider's portion.
func Split(amount int64) MintSplit {
	treasury := amount * TreasuryShareBps / types.BpsScale
	lp := amount * LiquidityPoolShareBps / types.BpsScale
	return MintSplit{
		Total:         amount,
		Provider:      amount - treasury - lp,
		Treasury:      treasury,
		LiquidityPool: lp,
	}
}

// RateInBounds reports whether a change from oldRate to newRate respects
// the relative delta bound. A zero oldRate establishes a new model and is
// unbounded.
func RateInBounds(oldRate, newRate int64) bool {
	if oldRate == 0 {
		return true
	}
	delta := newRate - oldRate
	if delta < 0 {
		delta = -delta
	}
	return delta <= oldRate*MaxRateDeltaPct/100
}

// MintEvent is emitted for every usage-driven mint.
type MintEvent struct {
	Model          string       `json:"model"`
	TokensConsumed int64        `json:"tokens_consumed"`
	Provider       string       `json:"provider"`
	Split          MintSplit    `json:"split"`
	Amount         types.Amount `json:"amount"`
	Timestamp      time.Time    `json:"timestamp"`
}

// AirdropEvent is emitted once per recipient of a batch airdrop.
type AirdropEvent struct {
	BatchID   id.AirdropID `json:"batch_id"`
	Recipient string       `json:"recipient"`
	Amount    types.Amount `json:"amount"`
	Reason    string       `json:"reason"`
	Timestamp time.Time    `json:"timestamp"`
}

// RateChange is emitted when governance updates a minting rate.
type RateChange struct {
	Model     string    `json:"model"`
	OldRate   int64     `json:"old_rate"`
	NewRate   int64     `json:"new_rate"`
	Timestamp time.Time `json:"timestamp"`
}
