// Package governance defines timelocked proposals and the treasury fund.
//
// Voting mechanics are deliberately minimal: one weight-by-balance vote per
// address inside the voting window. What the engine enforces strictly are
// the parameters — voting delay, voting period, proposer threshold, and the
// timelock's minimum delay between queueing and execution.
package governance

import (
	"time"

	"github.com/xraph/economy/id"
	"github.com/xraph/economy/types"
)

// Params are the governance-gate parameters.
type Params struct {
	// VotingDelay is how long after submission voting opens.
	VotingDelay time.Duration `json:"voting_delay"`

	// VotingPeriod is the length of the voting window.
	VotingPeriod time.Duration `json:"voting_period"`

	// ProposalThreshold is the minimum proposer balance, in token base
	// units, required to submit.
	ProposalThreshold int64 `json:"proposal_threshold"`

	// TimelockDelay is the minimum delay between queueing an approved
	// proposal and executing it.
	TimelockDelay time.Duration `json:"timelock_delay"`
}

// DefaultParams returns the protocol defaults: 1 day voting delay, 7 day
// voting period, 10,000 unit proposer threshold, 2 day timelock.
func DefaultParams() Params {
	return Params{
		VotingDelay:       24 * time.Hour,
		VotingPeriod:      7 * 24 * time.Hour,
		ProposalThreshold: 10_000,
		TimelockDelay:     48 * time.Hour,
	}
}

// Status is the lifecycle state of a proposal.
type Status string

const (
	StatusPending  Status = "pending"  // submitted, voting not yet open
	StatusActive   Status = "active"   // voting window open
	StatusDefeated Status = "defeated" // voting closed, not passed
	StatusQueued   Status = "queued"   // passed and queued in the timelock
	StatusExecuted Status = "executed" // actions applied
)

// ActionKind names a governance-executable parameter change.
type ActionKind string

const (
	ActionUpdateRate          ActionKind = "update_rate"
	ActionUpdateTreasury      ActionKind = "update_treasury"
	ActionUpdateLiquidityPool ActionKind = "update_liquidity_pool"
	ActionTreasuryWithdrawal  ActionKind = "treasury_withdrawal"
)

// Action is one parameter change or fund movement carried by a proposal.
// Only the fields relevant to the kind are set.
type Action struct {
	Kind    ActionKind `json:"kind"`
	Model   string     `json:"model,omitempty"`   // update_rate
	Rate    int64      `json:"rate,omitempty"`    // update_rate
	Address string     `json:"address,omitempty"` // address updates, withdrawal recipient
	Denom   string     `json:"denom,omitempty"`   // treasury_withdrawal
	Amount  int64      `json:"amount,omitempty"`  // treasury_withdrawal
}

// Proposal is a timelocked governance action set.
type Proposal struct {
	types.Entity
	ID          id.ProposalID `json:"id"`
	Proposer    string        `json:"proposer"`
	Description string        `json:"description"`
	Actions     []Action      `json:"actions"`
	Status      Status        `json:"status"`

	VotingStartsAt time.Time  `json:"voting_starts_at"`
	VotingEndsAt   time.Time  `json:"voting_ends_at"`
	ETA            *time.Time `json:"eta,omitempty"` // earliest execution time once queued

	ForVotes     int64 `json:"for_votes"`
	AgainstVotes int64 `json:"against_votes"`

	// Voters tracks which addresses have voted, preventing double votes.
	Voters map[string]bool `json:"voters,omitempty"`
}

// VotingOpen reports whether the voting window contains now.
func (p *Proposal) VotingOpen(now time.Time) bool {
	return !now.Before(p.VotingStartsAt) && now.Before(p.VotingEndsAt)
}

// Passed reports whether the proposal succeeded once voting closed.
func (p *Proposal) Passed(now time.Time) bool {
	return !now.Before(p.VotingEndsAt) && p.ForVotes > p.AgainstVotes
}

// Executable reports whether a queued proposal has matured past its ETA.
func (p *Proposal) Executable(now time.Time) bool {
	return p.Status == StatusQueued && p.ETA != nil && !now.Before(*p.ETA)
}

// ListOpts filters proposal listings.
type ListOpts struct {
	Status Status
	Limit  int
}
