// Package audithook bridges Economy lifecycle events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import any
// specific audit backend. Callers inject a RecorderFunc adapter that
// bridges to the concrete backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/plugin"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/staking"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/usage"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnCapabilityGranted  = (*Extension)(nil)
	_ plugin.OnCapabilityRevoked  = (*Extension)(nil)
	_ plugin.OnUsageRecorded      = (*Extension)(nil)
	_ plugin.OnSettlementCreated  = (*Extension)(nil)
	_ plugin.OnSettlementDisputed = (*Extension)(nil)
	_ plugin.OnDisputeResolved    = (*Extension)(nil)
	_ plugin.OnTokensMinted       = (*Extension)(nil)
	_ plugin.OnAirdropDistributed = (*Extension)(nil)
	_ plugin.OnMintingRateUpdated = (*Extension)(nil)
	_ plugin.OnStaked             = (*Extension)(nil)
	_ plugin.OnUnstaked           = (*Extension)(nil)
	_ plugin.OnProposalSubmitted  = (*Extension)(nil)
	_ plugin.OnProposalQueued     = (*Extension)(nil)
	_ plugin.OnProposalExecuted   = (*Extension)(nil)
	_ plugin.OnTreasuryDeposit    = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so that audithook does not depend on a concrete
// audit module; callers inject the backend at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Economy lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Authority hooks
// ──────────────────────────────────────────────────

// OnCapabilityGranted implements plugin.OnCapabilityGranted.
func (e *Extension) OnCapabilityGranted(ctx context.Context, g *authority.Grant) error {
	return e.record(ctx, ActionCapabilityGranted, SeverityInfo, OutcomeSuccess,
		ResourceCapability, g.Address, CategoryAccess, nil,
		"capability", string(g.Capability),
		"granted_by", g.GrantedBy,
	)
}

// OnCapabilityRevoked implements plugin.OnCapabilityRevoked.
func (e *Extension) OnCapabilityRevoked(ctx context.Context, address string, cap authority.Capability) error {
	return e.record(ctx, ActionCapabilityRevoked, SeverityWarning, OutcomeSuccess,
		ResourceCapability, address, CategoryAccess, nil,
		"capability", string(cap),
	)
}

// ──────────────────────────────────────────────────
// Usage and settlement hooks
// ──────────────────────────────────────────────────

// OnUsageRecorded implements plugin.OnUsageRecorded.
func (e *Extension) OnUsageRecorded(ctx context.Context, r *usage.Record) error {
	return e.record(ctx, ActionUsageRecorded, SeverityInfo, OutcomeSuccess,
		ResourceUsage, r.Hash, CategoryUsage, nil,
		"model", r.Model,
		"units", r.TotalUnits(),
		"consumer", r.Consumer,
		"provider", r.Provider,
	)
}

// OnSettlementCreated implements plugin.OnSettlementCreated.
func (e *Extension) OnSettlementCreated(ctx context.Context, s *settlement.Settlement) error {
	return e.record(ctx, ActionSettlementCreated, SeverityInfo, OutcomeSuccess,
		ResourceSettlement, s.UsageHash, CategorySettlement, nil,
		"consumer", s.Consumer,
		"provider", s.Provider,
		"amount", s.Amount,
	)
}

// OnSettlementDisputed implements plugin.OnSettlementDisputed.
func (e *Extension) OnSettlementDisputed(ctx context.Context, s *settlement.Settlement) error {
	return e.record(ctx, ActionSettlementDisputed, SeverityWarning, OutcomeSuccess,
		ResourceSettlement, s.UsageHash, CategorySettlement, nil,
		"consumer", s.Consumer,
		"reason", s.DisputeReason,
	)
}

// OnDisputeResolved implements plugin.OnDisputeResolved.
func (e *Extension) OnDisputeResolved(ctx context.Context, s *settlement.Settlement) error {
	return e.record(ctx, ActionDisputeResolved, SeverityInfo, OutcomeSuccess,
		ResourceSettlement, s.UsageHash, CategorySettlement, nil,
		"resolution", s.Status.String(),
	)
}

// ──────────────────────────────────────────────────
// Token hooks
// ──────────────────────────────────────────────────

// OnTokensMinted implements plugin.OnTokensMinted.
func (e *Extension) OnTokensMinted(ctx context.Context, ev *token.MintEvent) error {
	return e.record(ctx, ActionTokensMinted, SeverityInfo, OutcomeSuccess,
		ResourceToken, ev.Provider, CategoryIssuance, nil,
		"model", ev.Model,
		"tokens_consumed", ev.TokensConsumed,
		"minted", ev.Split.Total,
		"provider_share", ev.Split.Provider,
		"treasury_share", ev.Split.Treasury,
		"liquidity_pool_share", ev.Split.LiquidityPool,
	)
}

// OnAirdropDistributed implements plugin.OnAirdropDistributed.
func (e *Extension) OnAirdropDistributed(ctx context.Context, ev *token.AirdropEvent) error {
	return e.record(ctx, ActionAirdropDistributed, SeverityInfo, OutcomeSuccess,
		ResourceToken, ev.Recipient, CategoryIssuance, nil,
		"batch_id", ev.BatchID.String(),
		"amount", ev.Amount.Units,
		"reason", ev.Reason,
	)
}

// OnMintingRateUpdated implements plugin.OnMintingRateUpdated.
func (e *Extension) OnMintingRateUpdated(ctx context.Context, change *token.RateChange) error {
	return e.record(ctx, ActionRateUpdated, SeverityWarning, OutcomeSuccess,
		ResourceToken, change.Model, CategoryGovernance, nil,
		"old_rate", change.OldRate,
		"new_rate", change.NewRate,
	)
}

// ──────────────────────────────────────────────────
// Staking hooks
// ──────────────────────────────────────────────────

// OnStaked implements plugin.OnStaked.
func (e *Extension) OnStaked(ctx context.Context, p *staking.Position) error {
	return e.record(ctx, ActionStaked, SeverityInfo, OutcomeSuccess,
		ResourceStake, p.Provider, CategoryStaking, nil,
		"staked", p.Amount,
		"tier", p.Tier,
	)
}

// OnUnstaked implements plugin.OnUnstaked.
func (e *Extension) OnUnstaked(ctx context.Context, p *staking.Position, amount int64) error {
	return e.record(ctx, ActionUnstaked, SeverityInfo, OutcomeSuccess,
		ResourceStake, p.Provider, CategoryStaking, nil,
		"withdrawn", amount,
		"staked", p.Amount,
		"tier", p.Tier,
	)
}

// ──────────────────────────────────────────────────
// Governance hooks
// ──────────────────────────────────────────────────

// OnProposalSubmitted implements plugin.OnProposalSubmitted.
func (e *Extension) OnProposalSubmitted(ctx context.Context, p *governance.Proposal) error {
	return e.record(ctx, ActionProposalSubmitted, SeverityInfo, OutcomeSuccess,
		ResourceProposal, p.ID.String(), CategoryGovernance, nil,
		"proposer", p.Proposer,
		"actions", len(p.Actions),
	)
}

// OnProposalQueued implements plugin.OnProposalQueued.
func (e *Extension) OnProposalQueued(ctx context.Context, p *governance.Proposal) error {
	return e.record(ctx, ActionProposalQueued, SeverityInfo, OutcomeSuccess,
		ResourceProposal, p.ID.String(), CategoryGovernance, nil,
		"for_votes", p.ForVotes,
		"against_votes", p.AgainstVotes,
	)
}

// OnProposalExecuted implements plugin.OnProposalExecuted.
func (e *Extension) OnProposalExecuted(ctx context.Context, p *governance.Proposal) error {
	return e.record(ctx, ActionProposalExecuted, SeverityWarning, OutcomeSuccess,
		ResourceProposal, p.ID.String(), CategoryGovernance, nil,
		"actions", len(p.Actions),
	)
}

// OnTreasuryDeposit implements plugin.OnTreasuryDeposit.
func (e *Extension) OnTreasuryDeposit(ctx context.Context, from, denom string, amount int64) error {
	return e.record(ctx, ActionTreasuryDeposit, SeverityInfo, OutcomeSuccess,
		ResourceTreasury, denom, CategoryGovernance, nil,
		"from", from,
		"amount", amount,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
