// Package authority defines the capability model used to authorize every
// mutating operation in Economy.
//
// Capabilities are an explicit authorization table, not inherited behavior:
// each engine entry point looks the caller up before touching state.
package authority

import "github.com/xraph/economy/types"

// Capability is a named permission held by zero or more accounts.
type Capability string

const (
	// CapabilityAdmin may grant and revoke any capability, including itself.
	// Exactly one bootstrap admin exists at genesis.
	CapabilityAdmin Capability = "admin"

	// CapabilityMinter may mint new supply from verified usage.
	CapabilityMinter Capability = "minter"

	// CapabilityGovernance may change the rate table and the
	// treasury/liquidity-pool addresses.
	CapabilityGovernance Capability = "governance"

	// CapabilityAirdrop may distribute direct balance grants.
	CapabilityAirdrop Capability = "airdrop"

	// CapabilityResolver may resolve disputed settlements.
	CapabilityResolver Capability = "resolver"
)

// All enumerates every known capability.
var All = []Capability{
	CapabilityAdmin,
	CapabilityMinter,
	CapabilityGovernance,
	CapabilityAirdrop,
	CapabilityResolver,
}

// Valid reports whether c is a known capability.
func (c Capability) Valid() bool {
	for _, known := range All {
		if c == known {
			return true
		}
	}
	return false
}

// Grant records one capability held by one address.
type Grant struct {
	types.Entity
	Capability Capability `json:"capability"`
	Address    string     `json:"address"`
	GrantedBy  string     `json:"granted_by"`
}
