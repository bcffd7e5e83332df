package economy

import (
	"context"

	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/types"
)

// ──────────────────────────────────────────────────
// Settlement Lifecycle
// ──────────────────────────────────────────────────

// SettleUsage creates the payment obligation for a recorded usage. The
// usage record must exist, the parties must match it, and no settlement
// may already reference the hash. The settlement starts Pending:
// settlement is optimistic, funds are not escrowed.
func (e *Economy) SettleUsage(ctx context.Context, usageHash, consumer, provider string, amount int64) (*settlement.Settlement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	rec, err := e.store.GetUsage(ctx, usageHash)
	if err != nil {
		return nil, err
	}
	if rec.Consumer != consumer || rec.Provider != provider {
		return nil, ValidationError{Field: "parties", Message: "consumer or provider does not match the usage record"}
	}

	st := &settlement.Settlement{
		Entity:    types.NewEntityAt(e.now()),
		UsageHash: usageHash,
		Consumer:  consumer,
		Provider:  provider,
		Amount:    amount,
		Status:    settlement.StatusPending,
	}
	if err := e.store.CreateSettlement(ctx, st); err != nil {
		return nil, err
	}

	e.plugins.EmitSettlementCreated(ctx, st)
	e.logger.Info("settlement created",
		"usage_hash", usageHash,
		"consumer", consumer,
		"provider", provider,
		"amount", amount,
	)
	return st, nil
}

// ConfirmSettlement lets the consumer confirm a Pending settlement
// directly, without a dispute having been raised.
func (e *Economy) ConfirmSettlement(ctx context.Context, usageHash string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}

	st, err := e.store.GetSettlement(ctx, usageHash)
	if err != nil {
		return err
	}
	if st.Consumer != caller {
		return ErrNotConsumer
	}
	if !st.CanConfirm() {
		return ErrSettlementTerminal
	}

	st.Status = settlement.StatusConfirmed
	st.TouchAt(e.now())
	if err := e.store.UpdateSettlement(ctx, st); err != nil {
		return err
	}

	e.logger.Info("settlement confirmed", "usage_hash", usageHash, "consumer", caller)
	return nil
}

// DisputeSettlement moves a settlement to Disputed. Only the settlement's
// consumer may dispute, and a reason is required. Both Pending and
// Confirmed settlements may be disputed.
func (e *Economy) DisputeSettlement(ctx context.Context, usageHash, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if reason == "" {
		return ValidationError{Field: "reason", Message: "dispute reason is required"}
	}

	st, err := e.store.GetSettlement(ctx, usageHash)
	if err != nil {
		return err
	}
	if st.Consumer != caller {
		return ErrNotConsumer
	}
	if !st.CanDispute() {
		return ErrSettlementTerminal
	}

	st.Status = settlement.StatusDisputed
	st.DisputeReason = reason
	st.ResolvedAt = nil
	st.TouchAt(e.now())
	if err := e.store.UpdateSettlement(ctx, st); err != nil {
		return err
	}

	e.plugins.EmitSettlementDisputed(ctx, st)
	e.logger.Info("settlement disputed",
		"usage_hash", usageHash,
		"consumer", caller,
		"reason", reason,
	)
	return nil
}

// ResolveDispute resolves a Disputed settlement to Confirmed or Rejected.
// The caller must hold the resolver or admin capability.
func (e *Economy) ResolveDispute(ctx context.Context, usageHash string, resolution settlement.Resolution) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if err := e.requireResolver(ctx, caller); err != nil {
		return err
	}
	if !resolution.Valid() {
		return ErrInvalidResolution
	}

	st, err := e.store.GetSettlement(ctx, usageHash)
	if err != nil {
		return err
	}
	if !st.CanResolve() {
		return ErrNotDisputed
	}

	st.Status = settlement.Status(resolution)
	now := e.now()
	st.ResolvedAt = &now
	st.TouchAt(now)
	if err := e.store.UpdateSettlement(ctx, st); err != nil {
		return err
	}

	e.plugins.EmitDisputeResolved(ctx, st)
	e.logger.Info("dispute resolved",
		"usage_hash", usageHash,
		"resolution", st.Status,
		"resolved_by", caller,
	)
	return nil
}

// GetSettlement retrieves the settlement for a usage hash.
func (e *Economy) GetSettlement(ctx context.Context, usageHash string) (*settlement.Settlement, error) {
	return e.store.GetSettlement(ctx, usageHash)
}

// ProviderSettlements lists a provider's settlements in creation order.
func (e *Economy) ProviderSettlements(ctx context.Context, provider string, opts settlement.ListOpts) ([]*settlement.Settlement, error) {
	return e.store.ListSettlements(ctx, provider, opts)
}

// requireResolver accepts the resolver capability or, as a fallback, the
// admin capability.
func (e *Economy) requireResolver(ctx context.Context, address string) error {
	ok, err := e.store.HasCapability(ctx, address, authority.CapabilityResolver)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	ok, err = e.store.HasCapability(ctx, address, authority.CapabilityAdmin)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
