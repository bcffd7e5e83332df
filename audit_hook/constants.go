package audithook

// Action constants for audit events.
const (
	// Authority actions
	ActionCapabilityGranted = "capability.granted"
	ActionCapabilityRevoked = "capability.revoked"

	// Usage actions
	ActionUsageRecorded = "usage.recorded"

	// Settlement actions
	ActionSettlementCreated  = "settlement.created"
	ActionSettlementDisputed = "settlement.disputed"
	ActionDisputeResolved    = "settlement.dispute_resolved"

	// Token actions
	ActionTokensMinted       = "token.minted"
	ActionAirdropDistributed = "token.airdrop_distributed"
	ActionRateUpdated        = "token.rate_updated"
	ActionTransfer           = "token.transfer"

	// Staking actions
	ActionStaked   = "stake.deposited"
	ActionUnstaked = "stake.withdrawn"

	// Governance actions
	ActionProposalSubmitted = "governance.proposal_submitted"
	ActionProposalQueued    = "governance.proposal_queued"
	ActionProposalExecuted  = "governance.proposal_executed"
	ActionTreasuryDeposit   = "treasury.deposit"
)

// Resource constants for audit events.
const (
	ResourceCapability = "capability"
	ResourceUsage      = "usage"
	ResourceSettlement = "settlement"
	ResourceToken      = "token"
	ResourceStake      = "stake"
	ResourceProposal   = "proposal"
	ResourceTreasury   = "treasury"
)

// Category constants for audit events.
const (
	CategoryAccess     = "access"
	CategoryUsage      = "usage"
	CategorySettlement = "settlement"
	CategoryIssuance   = "issuance"
	CategoryStaking    = "staking"
	CategoryGovernance = "governance"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
