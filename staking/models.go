// Package staking defines provider stake positions and the tier table.
package staking

import "github.com/xraph/economy/types"

// PoolAccount is the custody address holding all staked tokens.
const PoolAccount = "economy/stake-pool"

// DefaultTierThresholds is the ordered threshold table, in token base
// units. A provider's tier is the greatest index whose threshold is at or
// below their staked amount: below 10,000 is tier 0, at or above 10,000 is
// tier 1, and so on.
var DefaultTierThresholds = []int64{0, 10_000, 100_000, 1_000_000}

// TierFor returns the tier for a staked amount against the given
// threshold table. The table must be monotonically increasing.
func TierFor(amount int64, thresholds []int64) int {
	tier := 0
	for i, min := range thresholds {
		if amount >= min {
			tier = i
		}
	}
	return tier
}

// Position is a provider's stake. Tier is always recomputed from Amount on
// mutation; it is stored for query convenience, never maintained
// independently.
type Position struct {
	types.Entity
	Provider string `json:"provider"`
	Amount   int64  `json:"amount"`
	Tier     int    `json:"tier"`
}
