package economy

import (
	"context"
	"errors"

	"github.com/xraph/economy/staking"
	"github.com/xraph/economy/types"
)

// ──────────────────────────────────────────────────
// Provider Staking
// ──────────────────────────────────────────────────

// Stake locks tokens from the caller into the stake pool and recomputes
// the caller's tier. The balance debit and the position update happen
// under the engine lock, so a failed debit leaves the position untouched.
func (e *Economy) Stake(ctx context.Context, amount int64) (*staking.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if err := e.store.Debit(ctx, caller, amount); err != nil {
		return nil, err
	}
	if err := e.store.Credit(ctx, staking.PoolAccount, amount); err != nil {
		return nil, err
	}

	pos, err := e.store.GetStake(ctx, caller)
	if errors.Is(err, ErrStakeNotFound) {
		pos = &staking.Position{
			Entity:   types.NewEntityAt(e.now()),
			Provider: caller,
		}
	} else if err != nil {
		return nil, err
	}

	pos.Amount += amount
	pos.Tier = staking.TierFor(pos.Amount, staking.DefaultTierThresholds)
	pos.TouchAt(e.now())
	if err := e.store.PutStake(ctx, pos); err != nil {
		return nil, err
	}

	e.plugins.EmitStaked(ctx, pos)
	e.logger.Info("tokens staked",
		"provider", caller,
		"amount", amount,
		"staked", pos.Amount,
		"tier", pos.Tier,
	)
	return pos, nil
}

// Unstake releases tokens from the caller's stake back to their balance
// and recomputes the tier.
func (e *Economy) Unstake(ctx context.Context, amount int64) (*staking.Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	pos, err := e.store.GetStake(ctx, caller)
	if err != nil {
		return nil, err
	}
	if pos.Amount < amount {
		return nil, ErrInsufficientStake
	}

	if err := e.store.Debit(ctx, staking.PoolAccount, amount); err != nil {
		return nil, err
	}
	if err := e.store.Credit(ctx, caller, amount); err != nil {
		return nil, err
	}

	pos.Amount -= amount
	pos.Tier = staking.TierFor(pos.Amount, staking.DefaultTierThresholds)
	pos.TouchAt(e.now())
	if err := e.store.PutStake(ctx, pos); err != nil {
		return nil, err
	}

	e.plugins.EmitUnstaked(ctx, pos, amount)
	e.logger.Info("tokens unstaked",
		"provider", caller,
		"amount", amount,
		"staked", pos.Amount,
		"tier", pos.Tier,
	)
	return pos, nil
}

// StakeInfo returns a provider's stake position. A provider that never
// staked has a zero position at tier 0.
func (e *Economy) StakeInfo(ctx context.Context, provider string) (*staking.Position, error) {
	pos, err := e.store.GetStake(ctx, provider)
	if errors.Is(err, ErrStakeNotFound) {
		return &staking.Position{Provider: provider}, nil
	}
	return pos, err
}

// ProviderTier returns a provider's current tier.
func (e *Economy) ProviderTier(ctx context.Context, provider string) (int, error) {
	pos, err := e.StakeInfo(ctx, provider)
	if err != nil {
		return 0, err
	}
	return pos.Tier, nil
}
