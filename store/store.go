package store

import (
	"context"

	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/id"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/staking"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/usage"
)

// Store is the unified storage interface for all Economy entities.
// Instead of embedding sub-interfaces, all methods are declared explicitly
// to avoid naming conflicts.
//
// Implementations enforce uniqueness constraints (one settlement per usage
// hash, one usage record per hash, single protocol row) but not cross-entity
// atomicity; the engine serializes mutating operations.
type Store interface {
	// Protocol methods
	InitProtocol(ctx context.Context, meta *token.Metadata) error
	GetProtocol(ctx context.Context) (*token.Metadata, error)
	UpdateProtocol(ctx context.Context, meta *token.Metadata) error

	// Authority methods
	GrantCapability(ctx context.Context, g *authority.Grant) error
	RevokeCapability(ctx context.Context, address string, cap authority.Capability) error
	HasCapability(ctx context.Context, address string, cap authority.Capability) (bool, error)
	CapabilitiesOf(ctx context.Context, address string) ([]authority.Capability, error)

	// Balance methods. Credit and Debit adjust a single account; Debit
	// fails without mutation when the balance is insufficient.
	Balance(ctx context.Context, address string) (int64, error)
	Credit(ctx context.Context, address string, amount int64) error
	Debit(ctx context.Context, address string, amount int64) error
	TotalSupply(ctx context.Context) (int64, error)
	AddSupply(ctx context.Context, delta int64) error
	SetAllowance(ctx context.Context, owner, spender string, amount int64) error
	Allowance(ctx context.Context, owner, spender string) (int64, error)

	// Minting rate methods
	MintingRate(ctx context.Context, model string) (int64, error)
	SetMintingRate(ctx context.Context, model string, rate int64) error
	ListMintingRates(ctx context.Context) (map[string]int64, error)

	// Airdrop methods
	AddAirdropHistory(ctx context.Context, ev *token.AirdropEvent) error
	AirdropHistory(ctx context.Context, recipient string) ([]*token.AirdropEvent, error)

	// Usage methods
	CreateUsage(ctx context.Context, r *usage.Record) error
	GetUsage(ctx context.Context, hash string) (*usage.Record, error)
	ConsumerUsage(ctx context.Context, consumer string, opts usage.PageOpts) ([]*usage.Record, error)

	// Settlement methods
	CreateSettlement(ctx context.Context, s *settlement.Settlement) error
	GetSettlement(ctx context.Context, usageHash string) (*settlement.Settlement, error)
	UpdateSettlement(ctx context.Context, s *settlement.Settlement) error
	ListSettlements(ctx context.Context, provider string, opts settlement.ListOpts) ([]*settlement.Settlement, error)

	// Staking methods
	GetStake(ctx context.Context, provider string) (*staking.Position, error)
	PutStake(ctx context.Context, p *staking.Position) error

	// Treasury methods. The treasury holds per-denomination balances
	// separate from the token account book.
	TreasuryBalance(ctx context.Context, denom string) (int64, error)
	TreasuryCredit(ctx context.Context, denom string, amount int64) error
	TreasuryDebit(ctx context.Context, denom string, amount int64) error

	// Governance methods
	CreateProposal(ctx context.Context, p *governance.Proposal) error
	GetProposal(ctx context.Context, propID id.ProposalID) (*governance.Proposal, error)
	UpdateProposal(ctx context.Context, p *governance.Proposal) error
	ListProposals(ctx context.Context, opts governance.ListOpts) ([]*governance.Proposal, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
