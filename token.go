package economy

import (
	"context"
	"errors"

	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/id"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/types"
)

// ──────────────────────────────────────────────────
// Token Ledger
// ──────────────────────────────────────────────────

// BalanceOf returns an address's token balance in base units.
func (e *Economy) BalanceOf(ctx context.Context, address string) (int64, error) {
	return e.store.Balance(ctx, address)
}

// TotalSupply returns the minted supply in base units.
func (e *Economy) TotalSupply(ctx context.Context) (int64, error) {
	return e.store.TotalSupply(ctx)
}

// Transfer moves tokens from the caller to another address.
func (e *Economy) Transfer(ctx context.Context, to string, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	return e.transfer(ctx, caller, to, amount)
}

// Approve sets the caller's allowance for a spender. It overwrites any
// prior allowance rather than adjusting it.
func (e *Economy) Approve(ctx context.Context, spender string, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if spender == "" {
		return ErrInvalidAddress
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	return e.store.SetAllowance(ctx, caller, spender, amount)
}

// Allowance returns the remaining amount a spender may transfer on an
// owner's behalf.
func (e *Economy) Allowance(ctx context.Context, owner, spender string) (int64, error) {
	return e.store.Allowance(ctx, owner, spender)
}

// TransferFrom moves tokens from an owner to a recipient using the
// caller's allowance. The allowance is reduced before the balance moves.
func (e *Economy) TransferFrom(ctx context.Context, from, to string, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	allowed, err := e.store.Allowance(ctx, from, caller)
	if err != nil {
		return err
	}
	if allowed < amount {
		return ErrInsufficientAllowance
	}

	if err := e.transfer(ctx, from, to, amount); err != nil {
		return err
	}
	return e.store.SetAllowance(ctx, from, caller, allowed-amount)
}

// transfer is the shared balance move. Callers hold e.mu.
func (e *Economy) transfer(ctx context.Context, from, to string, amount int64) error {
	if to == "" || from == "" {
		return ErrInvalidAddress
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if err := e.store.Debit(ctx, from, amount); err != nil {
		return err
	}
	if err := e.store.Credit(ctx, to, amount); err != nil {
		return err
	}

	e.plugins.EmitTransfer(ctx, from, to, amount)
	return nil
}

// ──────────────────────────────────────────────────
// Usage-driven Minting
// ──────────────────────────────────────────────────

// MintByUsage mints tokens for metered usage. The caller must hold the
// minter capability. The minted amount is tokensConsumed scaled by the
// model's rate; the treasury receives 10%, the liquidity pool 5%, and the
// provider the remainder, so the split always conserves the total.
func (e *Economy) MintByUsage(ctx context.Context, model string, tokensConsumed int64, provider string) (*token.MintEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.requireCapability(ctx, caller, authority.CapabilityMinter); err != nil {
		return nil, err
	}
	if provider == "" {
		return nil, ErrInvalidAddress
	}
	if tokensConsumed <= 0 {
		return nil, ErrInvalidAmount
	}

	meta, err := e.store.GetProtocol(ctx)
	if err != nil {
		return nil, err
	}
	rate, err := e.store.MintingRate(ctx, model)
	if err != nil {
		return nil, err
	}
	if rate == 0 {
		return nil, ErrRateNotSet
	}

	amount := tokensConsumed * rate / types.RateScale
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	split := token.Split(amount)

	if err := e.store.Credit(ctx, provider, split.Provider); err != nil {
		return nil, err
	}
	if err := e.store.Credit(ctx, meta.Treasury, split.Treasury); err != nil {
		return nil, err
	}
	if err := e.store.Credit(ctx, meta.LiquidityPool, split.LiquidityPool); err != nil {
		return nil, err
	}
	if err := e.store.AddSupply(ctx, split.Total); err != nil {
		return nil, err
	}

	ev := &token.MintEvent{
		Model:          model,
		TokensConsumed: tokensConsumed,
		Provider:       provider,
		Split:          split,
		Amount:         types.Share(split.Total),
		Timestamp:      e.now(),
	}
	e.plugins.EmitTokensMinted(ctx, ev)
	e.logger.Info("tokens minted",
		"model", model,
		"tokens_consumed", tokensConsumed,
		"provider", provider,
		"minted", split.Total,
	)
	return ev, nil
}

// ──────────────────────────────────────────────────
// Airdrops
// ──────────────────────────────────────────────────

// BatchAirdrop mints tokens to a batch of recipients. The caller must hold
// the airdrop capability. Inputs are validated in full before any balance
// changes, so a bad entry leaves all balances untouched.
func (e *Economy) BatchAirdrop(ctx context.Context, recipients []string, amounts []int64, reason string) (id.AirdropID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return id.AirdropID{}, err
	}
	if err := e.requireCapability(ctx, caller, authority.CapabilityAirdrop); err != nil {
		return id.AirdropID{}, err
	}
	if len(recipients) != len(amounts) {
		return id.AirdropID{}, ErrLengthMismatch
	}
	if len(recipients) == 0 {
		return id.AirdropID{}, ErrInvalidInput
	}
	for i := range recipients {
		if recipients[i] == "" {
			return id.AirdropID{}, ErrInvalidAddress
		}
		if amounts[i] <= 0 {
			return id.AirdropID{}, ErrInvalidAmount
		}
	}

	batchID := id.NewAirdropID()
	now := e.now()
	var total int64

	for i := range recipients {
		if err := e.store.Credit(ctx, recipients[i], amounts[i]); err != nil {
			return id.AirdropID{}, err
		}
		total += amounts[i]

		ev := &token.AirdropEvent{
			BatchID:   batchID,
			Recipient: recipients[i],
			Amount:    types.Share(amounts[i]),
			Reason:    reason,
			Timestamp: now,
		}
		if err := e.store.AddAirdropHistory(ctx, ev); err != nil {
			return id.AirdropID{}, err
		}
		e.plugins.EmitAirdropDistributed(ctx, ev)
	}
	if err := e.store.AddSupply(ctx, total); err != nil {
		return id.AirdropID{}, err
	}

	e.logger.Info("airdrop distributed",
		"batch_id", batchID,
		"recipients", len(recipients),
		"total", total,
		"reason", reason,
	)
	return batchID, nil
}

// AirdropHistory returns the airdrop events received by an address.
func (e *Economy) AirdropHistory(ctx context.Context, address string) ([]*token.AirdropEvent, error) {
	return e.store.AirdropHistory(ctx, address)
}

// ──────────────────────────────────────────────────
// Minting Rates
// ──────────────────────────────────────────────────

// UpdateMintingRate changes a model's minting rate. The caller must hold
// the governance capability. Establishing a rate for a new model is
// unconditional; changing an existing rate is bounded to ±20% of the old.
func (e *Economy) UpdateMintingRate(ctx context.Context, model string, newRate int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if err := e.requireCapability(ctx, caller, authority.CapabilityGovernance); err != nil {
		return err
	}

	return e.updateRate(ctx, model, newRate)
}

// updateRate applies a bounded rate change. Callers hold e.mu and have
// already authorized the change.
func (e *Economy) updateRate(ctx context.Context, model string, newRate int64) error {
	if model == "" {
		return ValidationError{Field: "model", Message: "model is required"}
	}
	if newRate <= 0 {
		return ErrInvalidAmount
	}

	oldRate, err := e.store.MintingRate(ctx, model)
	if err != nil {
		if !errors.Is(err, ErrRateNotSet) {
			return err
		}
		oldRate = 0
	}
	if !token.RateInBounds(oldRate, newRate) {
		return ErrRateOutOfBounds
	}

	if err := e.store.SetMintingRate(ctx, model, newRate); err != nil {
		return err
	}

	change := &token.RateChange{
		Model:     model,
		OldRate:   oldRate,
		NewRate:   newRate,
		Timestamp: e.now(),
	}
	e.plugins.EmitMintingRateUpdated(ctx, change)
	e.logger.Info("minting rate updated",
		"model", model,
		"old_rate", oldRate,
		"new_rate", newRate,
	)
	return nil
}

// MintingRate returns the rate configured for a model.
func (e *Economy) MintingRate(ctx context.Context, model string) (int64, error) {
	return e.store.MintingRate(ctx, model)
}

// MintingRates returns the full rate table.
func (e *Economy) MintingRates(ctx context.Context) (map[string]int64, error) {
	return e.store.ListMintingRates(ctx)
}

// ──────────────────────────────────────────────────
// Protocol Addresses
// ──────────────────────────────────────────────────

// UpdateTreasury changes the treasury address, effective immediately for
// subsequent mints. The caller must hold the governance capability.
func (e *Economy) UpdateTreasury(ctx context.Context, address string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if err := e.requireCapability(ctx, caller, authority.CapabilityGovernance); err != nil {
		return err
	}
	return e.updateTreasuryAddr(ctx, address)
}

// UpdateLiquidityPool changes the liquidity pool address, effective
// immediately for subsequent mints. The caller must hold the governance
// capability.
func (e *Economy) UpdateLiquidityPool(ctx context.Context, address string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if err := e.requireCapability(ctx, caller, authority.CapabilityGovernance); err != nil {
		return err
	}
	return e.updateLiquidityPoolAddr(ctx, address)
}

func (e *Economy) updateTreasuryAddr(ctx context.Context, address string) error {
	if address == "" {
		return ErrInvalidAddress
	}
	meta, err := e.store.GetProtocol(ctx)
	if err != nil {
		return err
	}
	meta.Treasury = address
	meta.TouchAt(e.now())
	return e.store.UpdateProtocol(ctx, meta)
}

func (e *Economy) updateLiquidityPoolAddr(ctx context.Context, address string) error {
	if address == "" {
		return ErrInvalidAddress
	}
	meta, err := e.store.GetProtocol(ctx)
	if err != nil {
		return err
	}
	meta.LiquidityPool = address
	meta.TouchAt(e.now())
	return e.store.UpdateProtocol(ctx, meta)
}
