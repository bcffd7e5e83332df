// Package economy provides a usage-metered token economy engine for Go applications.
//
// Economy is designed as a library, not a service. Import it directly into your Go
// application for maximum performance and flexibility. It provides:
//
//   - Capability-based role authority with explicit grant and revoke
//   - Content-addressed usage metering for AI model consumption
//   - Settlement lifecycle with dispute and resolution handling
//   - Usage-driven token issuance with fixed provider/treasury/liquidity splits
//   - Bounded minting-rate governance with timelocked proposals
//   - Provider staking with threshold-based tiers
//
// # Quick Start
//
// Create an economy instance with your preferred store:
//
//	import (
//	    "github.com/xraph/economy"
//	    "github.com/xraph/economy/store/memory"
//	)
//
//	// Initialize store
//	store := memory.New()
//
//	// Create economy
//	eco := economy.New(store)
//
//	// Start the economy (runs migrations, notifies plugins)
//	if err := eco.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer eco.Stop()
//
// # Core Concepts
//
// The protocol is initialized once with the genesis configuration. The admin
// receives the bootstrap capabilities and default minting rates are seeded:
//
//	err := eco.Initialize(ctx, token.Genesis{
//	    Name:          "Compute Share",
//	    Symbol:        "SHARE",
//	    Admin:         "addr-admin",
//	    Treasury:      "addr-treasury",
//	    LiquidityPool: "addr-pool",
//	})
//
// Usage records meter model consumption and are content-addressed by hash:
//
//	hash, err := eco.RecordUsage(ctx, "claude-3-opus", 1000, 2000, consumer, provider)
//
// Minting converts settled usage into token issuance, splitting 85% to the
// provider, 10% to the treasury, and 5% to the liquidity pool:
//
//	ev, err := eco.MintByUsage(ctx, provider, "claude-3-opus", tokensConsumed)
//
// Settlements track payment for recorded usage, with consumer-initiated
// disputes resolved by holders of the resolver capability:
//
//	err := eco.SettleUsage(ctx, hash, consumer, provider, amount)
//	err = eco.DisputeSettlement(ctx, hash, "output truncated")
//	err = eco.ResolveDispute(ctx, hash, settlement.ResolutionConfirmed)
//
// # Arithmetic
//
// All token quantities are int64 base units, and all calculations use integer
// arithmetic to avoid floating-point precision issues. Minting rates are
// fixed-point with scale 1000; revenue splits use basis points.
//
// # Caller Identity
//
// Mutating operations read the acting address from the context:
//
//	ctx = economy.WithCaller(ctx, "addr-admin")
//	err := eco.GrantCapability(ctx, authority.CapabilityMinter, "addr-mint-svc")
//
// # TypeID
//
// Entities without a natural key use TypeID for globally unique, type-safe
// identifiers:
//
//	prop_01h2xcejqtf2nbrexx3vqjhp41  // Governance proposal ID
//	drop_01h455vb4pex5vsknk084sn02q  // Airdrop batch ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package economy
