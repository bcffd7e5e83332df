package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/staking"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/usage"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit               []OnInit
	onShutdown           []OnShutdown
	onCapabilityGranted  []OnCapabilityGranted
	onCapabilityRevoked  []OnCapabilityRevoked
	onUsageRecorded      []OnUsageRecorded
	onSettlementCreated  []OnSettlementCreated
	onSettlementDisputed []OnSettlementDisputed
	onDisputeResolved    []OnDisputeResolved
	onTokensMinted       []OnTokensMinted
	onAirdropDistributed []OnAirdropDistributed
	onMintingRateUpdated []OnMintingRateUpdated
	onTransfer           []OnTransfer
	onStaked             []OnStaked
	onUnstaked           []OnUnstaked
	onProposalSubmitted  []OnProposalSubmitted
	onProposalQueued     []OnProposalQueued
	onProposalExecuted   []OnProposalExecuted
	onTreasuryDeposit    []OnTreasuryDeposit
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnCapabilityGranted); ok {
		r.onCapabilityGranted = append(r.onCapabilityGranted, v)
	}
	if v, ok := p.(OnCapabilityRevoked); ok {
		r.onCapabilityRevoked = append(r.onCapabilityRevoked, v)
	}
	if v, ok := p.(OnUsageRecorded); ok {
		r.onUsageRecorded = append(r.onUsageRecorded, v)
	}
	if v, ok := p.(OnSettlementCreated); ok {
		r.onSettlementCreated = append(r.onSettlementCreated, v)
	}
	if v, ok := p.(OnSettlementDisputed); ok {
		r.onSettlementDisputed = append(r.onSettlementDisputed, v)
	}
	if v, ok := p.(OnDisputeResolved); ok {
		r.onDisputeResolved = append(r.onDisputeResolved, v)
	}
	if v, ok := p.(OnTokensMinted); ok {
		r.onTokensMinted = append(r.onTokensMinted, v)
	}
	if v, ok := p.(OnAirdropDistributed); ok {
		r.onAirdropDistributed = append(r.onAirdropDistributed, v)
	}
	if v, ok := p.(OnMintingRateUpdated); ok {
		r.onMintingRateUpdated = append(r.onMintingRateUpdated, v)
	}
	if v, ok := p.(OnTransfer); ok {
		r.onTransfer = append(r.onTransfer, v)
	}
	if v, ok := p.(OnStaked); ok {
		r.onStaked = append(r.onStaked, v)
	}
	if v, ok := p.(OnUnstaked); ok {
		r.onUnstaked = append(r.onUnstaked, v)
	}
	if v, ok := p.(OnProposalSubmitted); ok {
		r.onProposalSubmitted = append(r.onProposalSubmitted, v)
	}
	if v, ok := p.(OnProposalQueued); ok {
		r.onProposalQueued = append(r.onProposalQueued, v)
	}
	if v, ok := p.(OnProposalExecuted); ok {
		r.onProposalExecuted = append(r.onProposalExecuted, v)
	}
	if v, ok := p.(OnTreasuryDeposit); ok {
		r.onTreasuryDeposit = append(r.onTreasuryDeposit, v)
	}

	r.logger.Info("plugin registered", "name", p.Name())

	return nil
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, eng interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, eng)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitCapabilityGranted emits a capability granted event.
func (r *Registry) EmitCapabilityGranted(ctx context.Context, g *authority.Grant) {
	r.mu.RLock()
	plugins := r.onCapabilityGranted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCapabilityGranted(ctx, g)
		}); err != nil {
			r.logger.Warn("plugin OnCapabilityGranted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitCapabilityRevoked emits a capability revoked event.
func (r *Registry) EmitCapabilityRevoked(ctx context.Context, address string, cap authority.Capability) {
	r.mu.RLock()
	plugins := r.onCapabilityRevoked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnCapabilityRevoked(ctx, address, cap)
		}); err != nil {
			r.logger.Warn("plugin OnCapabilityRevoked failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitUsageRecorded emits a usage recorded event.
func (r *Registry) EmitUsageRecorded(ctx context.Context, rec *usage.Record) {
	r.mu.RLock()
	plugins := r.onUsageRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUsageRecorded(ctx, rec)
		}); err != nil {
			r.logger.Warn("plugin OnUsageRecorded failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitSettlementCreated emits a settlement created event.
func (r *Registry) EmitSettlementCreated(ctx context.Context, s *settlement.Settlement) {
	r.mu.RLock()
	plugins := r.onSettlementCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSettlementCreated(ctx, s)
		}); err != nil {
			r.logger.Warn("plugin OnSettlementCreated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitSettlementDisputed emits a settlement disputed event.
func (r *Registry) EmitSettlementDisputed(ctx context.Context, s *settlement.Settlement) {
	r.mu.RLock()
	plugins := r.onSettlementDisputed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSettlementDisputed(ctx, s)
		}); err != nil {
			r.logger.Warn("plugin OnSettlementDisputed failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitDisputeResolved emits a dispute resolved event.
func (r *Registry) EmitDisputeResolved(ctx context.Context, s *settlement.Settlement) {
	r.mu.RLock()
	plugins := r.onDisputeResolved
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnDisputeResolved(ctx, s)
		}); err != nil {
			r.logger.Warn("plugin OnDisputeResolved failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTokensMinted emits a tokens minted event.
func (r *Registry) EmitTokensMinted(ctx context.Context, ev *token.MintEvent) {
	r.mu.RLock()
	plugins := r.onTokensMinted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTokensMinted(ctx, ev)
		}); err != nil {
			r.logger.Warn("plugin OnTokensMinted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitAirdropDistributed emits an airdrop distributed event.
func (r *Registry) EmitAirdropDistributed(ctx context.Context, ev *token.AirdropEvent) {
	r.mu.RLock()
	plugins := r.onAirdropDistributed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnAirdropDistributed(ctx, ev)
		}); err != nil {
			r.logger.Warn("plugin OnAirdropDistributed failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitMintingRateUpdated emits a minting rate updated event.
func (r *Registry) EmitMintingRateUpdated(ctx context.Context, change *token.RateChange) {
	r.mu.RLock()
	plugins := r.onMintingRateUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnMintingRateUpdated(ctx, change)
		}); err != nil {
			r.logger.Warn("plugin OnMintingRateUpdated failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTransfer emits a transfer event.
func (r *Registry) EmitTransfer(ctx context.Context, from, to string, amount int64) {
	r.mu.RLock()
	plugins := r.onTransfer
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTransfer(ctx, from, to, amount)
		}); err != nil {
			r.logger.Warn("plugin OnTransfer failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitStaked emits a staked event.
func (r *Registry) EmitStaked(ctx context.Context, pos *staking.Position) {
	r.mu.RLock()
	plugins := r.onStaked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStaked(ctx, pos)
		}); err != nil {
			r.logger.Warn("plugin OnStaked failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitUnstaked emits an unstaked event.
func (r *Registry) EmitUnstaked(ctx context.Context, pos *staking.Position, amount int64) {
	r.mu.RLock()
	plugins := r.onUnstaked
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUnstaked(ctx, pos, amount)
		}); err != nil {
			r.logger.Warn("plugin OnUnstaked failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitProposalSubmitted emits a proposal submitted event.
func (r *Registry) EmitProposalSubmitted(ctx context.Context, prop *governance.Proposal) {
	r.mu.RLock()
	plugins := r.onProposalSubmitted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnProposalSubmitted(ctx, prop)
		}); err != nil {
			r.logger.Warn("plugin OnProposalSubmitted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitProposalQueued emits a proposal queued event.
func (r *Registry) EmitProposalQueued(ctx context.Context, prop *governance.Proposal) {
	r.mu.RLock()
	plugins := r.onProposalQueued
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnProposalQueued(ctx, prop)
		}); err != nil {
			r.logger.Warn("plugin OnProposalQueued failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitProposalExecuted emits a proposal executed event.
func (r *Registry) EmitProposalExecuted(ctx context.Context, prop *governance.Proposal) {
	r.mu.RLock()
	plugins := r.onProposalExecuted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnProposalExecuted(ctx, prop)
		}); err != nil {
			r.logger.Warn("plugin OnProposalExecuted failed", "plugin", p.Name(), "error", err)
		}
	}
}

// EmitTreasuryDeposit emits a treasury deposit event.
func (r *Registry) EmitTreasuryDeposit(ctx context.Context, from, denom string, amount int64) {
	r.mu.RLock()
	plugins := r.onTreasuryDeposit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTreasuryDeposit(ctx, from, denom, amount)
		}); err != nil {
			r.logger.Warn("plugin OnTreasuryDeposit failed", "plugin", p.Name(), "error", err)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the economy pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
