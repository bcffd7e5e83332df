// Package observability provides a metrics extension for Economy that
// records lifecycle event counts via an injected MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/plugin"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/staking"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/usage"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin               = (*MetricsExtension)(nil)
	_ plugin.OnInit               = (*MetricsExtension)(nil)
	_ plugin.OnCapabilityGranted  = (*MetricsExtension)(nil)
	_ plugin.OnCapabilityRevoked  = (*MetricsExtension)(nil)
	_ plugin.OnUsageRecorded      = (*MetricsExtension)(nil)
	_ plugin.OnSettlementCreated  = (*MetricsExtension)(nil)
	_ plugin.OnSettlementDisputed = (*MetricsExtension)(nil)
	_ plugin.OnDisputeResolved    = (*MetricsExtension)(nil)
	_ plugin.OnTokensMinted       = (*MetricsExtension)(nil)
	_ plugin.OnAirdropDistributed = (*MetricsExtension)(nil)
	_ plugin.OnMintingRateUpdated = (*MetricsExtension)(nil)
	_ plugin.OnTransfer           = (*MetricsExtension)(nil)
	_ plugin.OnStaked             = (*MetricsExtension)(nil)
	_ plugin.OnUnstaked           = (*MetricsExtension)(nil)
	_ plugin.OnProposalSubmitted  = (*MetricsExtension)(nil)
	_ plugin.OnProposalExecuted   = (*MetricsExtension)(nil)
	_ plugin.OnTreasuryDeposit    = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as an Economy plugin to automatically track protocol metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Authority metrics
	CapabilitiesGranted Counter
	CapabilitiesRevoked Counter

	// Usage metrics
	UsageRecorded Counter
	UsageUnits    Histogram

	// Settlement metrics
	SettlementsCreated  Counter
	SettlementsDisputed Counter
	DisputesResolved    Counter
	SettlementAmount    Histogram

	// Token metrics
	MintOperations   Counter
	TokensMinted     Counter
	AirdropsSent     Counter
	RateUpdates      Counter
	Transfers        Counter
	TransferredUnits Counter

	// Staking metrics
	StakeDeposits    Counter
	StakeWithdrawals Counter

	// Governance metrics
	ProposalsSubmitted Counter
	ProposalsExecuted  Counter
	TreasuryDeposits   Counter

	// Error metrics
	StoreErrors  Counter
	PluginErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		CapabilitiesGranted: factory.Counter("economy.capability.granted"),
		CapabilitiesRevoked: factory.Counter("economy.capability.revoked"),

		UsageRecorded: factory.Counter("economy.usage.recorded"),
		UsageUnits:    factory.Histogram("economy.usage.units"),

		SettlementsCreated:  factory.Counter("economy.settlement.created"),
		SettlementsDisputed: factory.Counter("economy.settlement.disputed"),
		DisputesResolved:    factory.Counter("economy.settlement.resolved"),
		SettlementAmount:    factory.Histogram("economy.settlement.amount"),

		MintOperations:   factory.Counter("economy.mint.operations"),
		TokensMinted:     factory.Counter("economy.mint.tokens"),
		AirdropsSent:     factory.Counter("economy.airdrop.sent"),
		RateUpdates:      factory.Counter("economy.rate.updates"),
		Transfers:        factory.Counter("economy.transfer.count"),
		TransferredUnits: factory.Counter("economy.transfer.units"),

		StakeDeposits:    factory.Counter("economy.stake.deposits"),
		StakeWithdrawals: factory.Counter("economy.stake.withdrawals"),

		ProposalsSubmitted: factory.Counter("economy.governance.submitted"),
		ProposalsExecuted:  factory.Counter("economy.governance.executed"),
		TreasuryDeposits:   factory.Counter("economy.treasury.deposits"),

		StoreErrors:  factory.Counter("economy.store.errors"),
		PluginErrors: factory.Counter("economy.plugin.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// OnCapabilityGranted implements plugin.OnCapabilityGranted.
func (m *MetricsExtension) OnCapabilityGranted(_ context.Context, _ *authority.Grant) error {
	m.CapabilitiesGranted.Inc()
	return nil
}

// OnCapabilityRevoked implements plugin.OnCapabilityRevoked.
func (m *MetricsExtension) OnCapabilityRevoked(_ context.Context, _ string, _ authority.Capability) error {
	m.CapabilitiesRevoked.Inc()
	return nil
}

// OnUsageRecorded implements plugin.OnUsageRecorded.
func (m *MetricsExtension) OnUsageRecorded(_ context.Context, r *usage.Record) error {
	m.UsageRecorded.Inc()
	m.UsageUnits.Observe(float64(r.TotalUnits()))
	return nil
}

// OnSettlementCreated implements plugin.OnSettlementCreated.
func (m *MetricsExtension) OnSettlementCreated(_ context.Context, s *settlement.Settlement) error {
	m.SettlementsCreated.Inc()
	m.SettlementAmount.Observe(float64(s.Amount))
	return nil
}

// OnSettlementDisputed implements plugin.OnSettlementDisputed.
func (m *MetricsExtension) OnSettlementDisputed(_ context.Context, _ *settlement.Settlement) error {
	m.SettlementsDisputed.Inc()
	return nil
}

// OnDisputeResolved implements plugin.OnDisputeResolved.
func (m *MetricsExtension) OnDisputeResolved(_ context.Context, _ *settlement.Settlement) error {
	m.DisputesResolved.Inc()
	return nil
}

// OnTokensMinted implements plugin.OnTokensMinted.
func (m *MetricsExtension) OnTokensMinted(_ context.Context, ev *token.MintEvent) error {
	m.MintOperations.Inc()
	m.TokensMinted.Add(float64(ev.Split.Total))
	return nil
}

// OnAirdropDistributed implements plugin.OnAirdropDistributed.
func (m *MetricsExtension) OnAirdropDistributed(_ context.Context, _ *token.AirdropEvent) error {
	m.AirdropsSent.Inc()
	return nil
}

// OnMintingRateUpdated implements plugin.OnMintingRateUpdated.
func (m *MetricsExtension) OnMintingRateUpdated(_ context.Context, _ *token.RateChange) error {
	m.RateUpdates.Inc()
	return nil
}

// OnTransfer implements plugin.OnTransfer.
func (m *MetricsExtension) OnTransfer(_ context.Context, _, _ string, amount int64) error {
	m.Transfers.Inc()
	m.TransferredUnits.Add(float64(amount))
	return nil
}

// OnStaked implements plugin.OnStaked.
func (m *MetricsExtension) OnStaked(_ context.Context, _ *staking.Position) error {
	m.StakeDeposits.Inc()
	return nil
}

// OnUnstaked implements plugin.OnUnstaked.
func (m *MetricsExtension) OnUnstaked(_ context.Context, _ *staking.Position, _ int64) error {
	m.StakeWithdrawals.Inc()
	return nil
}

// OnProposalSubmitted implements plugin.OnProposalSubmitted.
func (m *MetricsExtension) OnProposalSubmitted(_ context.Context, _ *governance.Proposal) error {
	m.ProposalsSubmitted.Inc()
	return nil
}

// OnProposalExecuted implements plugin.OnProposalExecuted.
func (m *MetricsExtension) OnProposalExecuted(_ context.Context, _ *governance.Proposal) error {
	m.ProposalsExecuted.Inc()
	return nil
}

// OnTreasuryDeposit implements plugin.OnTreasuryDeposit.
func (m *MetricsExtension) OnTreasuryDeposit(_ context.Context, _, _ string, _ int64) error {
	m.TreasuryDeposits.Inc()
	return nil
}
