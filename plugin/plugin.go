// Package plugin provides an extensible plugin system for Economy.
// Plugins can hook into various lifecycle events to extend functionality.
package plugin

import (
	"context"

	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/staking"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/usage"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the plugin is initialized.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, eng interface{}) error
}

// OnShutdown is called when the plugin is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Authority hooks
// ──────────────────────────────────────────────────

// OnCapabilityGranted is called when a capability is granted to an address.
type OnCapabilityGranted interface {
	Plugin
	OnCapabilityGranted(ctx context.Context, g *authority.Grant) error
}

// OnCapabilityRevoked is called when a capability is revoked.
type OnCapabilityRevoked interface {
	Plugin
	OnCapabilityRevoked(ctx context.Context, address string, cap authority.Capability) error
}

// ──────────────────────────────────────────────────
// Usage and settlement hooks
// ──────────────────────────────────────────────────

// OnUsageRecorded is called when a usage record is stored.
type OnUsageRecorded interface {
	Plugin
	OnUsageRecorded(ctx context.Context, r *usage.Record) error
}

// OnSettlementCreated is called when a settlement is created.
type OnSettlementCreated interface {
	Plugin
	OnSettlementCreated(ctx context.Context, s *settlement.Settlement) error
}

// OnSettlementDisputed is called when a settlement enters the disputed state.
type OnSettlementDisputed interface {
	Plugin
	OnSettlementDisputed(ctx context.Context, s *settlement.Settlement) error
}

// OnDisputeResolved is called when a disputed settlement is resolved.
type OnDisputeResolved interface {
	Plugin
	OnDisputeResolved(ctx context.Context, s *settlement.Settlement) error
}

// ──────────────────────────────────────────────────
// Token hooks
// ──────────────────────────────────────────────────

// OnTokensMinted is called for every usage-driven mint.
type OnTokensMinted interface {
	Plugin
	OnTokensMinted(ctx context.Context, ev *token.MintEvent) error
}

// OnAirdropDistributed is called once per recipient of a batch airdrop.
type OnAirdropDistributed interface {
	Plugin
	OnAirdropDistributed(ctx context.Context, ev *token.AirdropEvent) error
}

// OnMintingRateUpdated is called when a minting rate changes.
type OnMintingRateUpdated interface {
	Plugin
	OnMintingRateUpdated(ctx context.Context, change *token.RateChange) error
}

// OnTransfer is called for direct and delegated transfers.
type OnTransfer interface {
	Plugin
	OnTransfer(ctx context.Context, from, to string, amount int64) error
}

// ──────────────────────────────────────────────────
// Staking hooks
// ──────────────────────────────────────────────────

// OnStaked is called when a provider stakes tokens.
type OnStaked interface {
	Plugin
	OnStaked(ctx context.Context, p *staking.Position) error
}

// OnUnstaked is called when a provider withdraws stake.
type OnUnstaked interface {
	Plugin
	OnUnstaked(ctx context.Context, p *staking.Position, amount int64) error
}

// ──────────────────────────────────────────────────
// Governance and treasury hooks
// ──────────────────────────────────────────────────

// OnProposalSubmitted is called when a proposal is submitted.
type OnProposalSubmitted interface {
	Plugin
	OnProposalSubmitted(ctx context.Context, p *governance.Proposal) error
}

// OnProposalQueued is called when a passed proposal enters the timelock.
type OnProposalQueued interface {
	Plugin
	OnProposalQueued(ctx context.Context, p *governance.Proposal) error
}

// OnProposalExecuted is called after a proposal's actions are applied.
type OnProposalExecuted interface {
	Plugin
	OnProposalExecuted(ctx context.Context, p *governance.Proposal) error
}

// OnTreasuryDeposit is called when funds enter the treasury.
type OnTreasuryDeposit interface {
	Plugin
	OnTreasuryDeposit(ctx context.Context, from, denom string, amount int64) error
}
