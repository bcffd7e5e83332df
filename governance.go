package economy

import (
	"context"

	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/id"
	"github.com/xraph/economy/types"
)

// ──────────────────────────────────────────────────
// Governance Gate
// ──────────────────────────────────────────────────

// SubmitProposal submits a timelocked governance proposal. The caller's
// balance must meet the proposal threshold. The voting window is derived
// from the governance parameters at submission time.
func (e *Economy) SubmitProposal(ctx context.Context, description string, actions []governance.Action) (*governance.Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return nil, err
	}
	if description == "" {
		return nil, ValidationError{Field: "description", Message: "description is required"}
	}
	if len(actions) == 0 {
		return nil, ErrInvalidAction
	}
	for _, a := range actions {
		if err := validateAction(a); err != nil {
			return nil, err
		}
	}

	balance, err := e.store.Balance(ctx, caller)
	if err != nil {
		return nil, err
	}
	if balance < e.govParams.ProposalThreshold {
		return nil, ErrBelowThreshold
	}

	now := e.now()
	prop := &governance.Proposal{
		Entity:         types.NewEntityAt(now),
		ID:             id.NewProposalID(),
		Proposer:       caller,
		Description:    description,
		Actions:        actions,
		Status:         governance.StatusPending,
		VotingStartsAt: now.Add(e.govParams.VotingDelay),
		VotingEndsAt:   now.Add(e.govParams.VotingDelay + e.govParams.VotingPeriod),
		Voters:         make(map[string]bool),
	}
	if err := e.store.CreateProposal(ctx, prop); err != nil {
		return nil, err
	}

	e.plugins.EmitProposalSubmitted(ctx, prop)
	e.logger.Info("proposal submitted",
		"proposal_id", prop.ID,
		"proposer", caller,
		"actions", len(actions),
	)
	return prop, nil
}

// CastVote records the caller's vote. Voting is open only inside the
// window, each address votes once, and the vote weight is the caller's
// balance at vote time.
func (e *Economy) CastVote(ctx context.Context, propID id.ProposalID, support bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}

	prop, err := e.store.GetProposal(ctx, propID)
	if err != nil {
		return err
	}

	now := e.now()
	if !prop.VotingOpen(now) {
		return ErrVotingClosed
	}
	if prop.Voters[caller] {
		return ErrAlreadyVoted
	}

	weight, err := e.store.Balance(ctx, caller)
	if err != nil {
		return err
	}

	if support {
		prop.ForVotes += weight
	} else {
		prop.AgainstVotes += weight
	}
	prop.Voters[caller] = true
	if prop.Status == governance.StatusPending {
		prop.Status = governance.StatusActive
	}
	prop.TouchAt(now)

	if err := e.store.UpdateProposal(ctx, prop); err != nil {
		return err
	}

	e.logger.Debug("vote cast",
		"proposal_id", propID,
		"voter", caller,
		"support", support,
		"weight", weight,
	)
	return nil
}

// QueueProposal queues a passed proposal into the timelock. It may be
// called by anyone once the voting window closed with more for than
// against votes; the earliest execution time is now plus the timelock
// delay.
func (e *Economy) QueueProposal(ctx context.Context, propID id.ProposalID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prop, err := e.store.GetProposal(ctx, propID)
	if err != nil {
		return err
	}

	now := e.now()
	if now.Before(prop.VotingEndsAt) {
		return ErrVotingClosed
	}
	if prop.Status == governance.StatusQueued || prop.Status == governance.StatusExecuted {
		return ErrAlreadyExists
	}
	if !prop.Passed(now) {
		prop.Status = governance.StatusDefeated
		prop.TouchAt(now)
		_ = e.store.UpdateProposal(ctx, prop) //nolint:errcheck // best-effort terminal status record
		return ErrProposalNotPassed
	}

	eta := now.Add(e.govParams.TimelockDelay)
	prop.Status = governance.StatusQueued
	prop.ETA = &eta
	prop.TouchAt(now)
	if err := e.store.UpdateProposal(ctx, prop); err != nil {
		return err
	}

	e.plugins.EmitProposalQueued(ctx, prop)
	e.logger.Info("proposal queued",
		"proposal_id", propID,
		"eta", eta,
	)
	return nil
}

// ExecuteProposal applies a queued proposal's actions once the timelock
// delay has elapsed. Actions execute with governance authority; treasury
// funds can leave only through an executed treasury_withdrawal action.
func (e *Economy) ExecuteProposal(ctx context.Context, propID id.ProposalID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prop, err := e.store.GetProposal(ctx, propID)
	if err != nil {
		return err
	}

	now := e.now()
	if !prop.Executable(now) {
		return ErrTimelockNotReady
	}

	for _, a := range prop.Actions {
		if err := e.applyAction(ctx, a); err != nil {
			return err
		}
	}

	prop.Status = governance.StatusExecuted
	prop.TouchAt(now)
	if err := e.store.UpdateProposal(ctx, prop); err != nil {
		return err
	}

	e.plugins.EmitProposalExecuted(ctx, prop)
	e.logger.Info("proposal executed", "proposal_id", propID)
	return nil
}

// GetProposal retrieves a proposal by ID.
func (e *Economy) GetProposal(ctx context.Context, propID id.ProposalID) (*governance.Proposal, error) {
	return e.store.GetProposal(ctx, propID)
}

// ListProposals lists proposals in submission order.
func (e *Economy) ListProposals(ctx context.Context, opts governance.ListOpts) ([]*governance.Proposal, error) {
	return e.store.ListProposals(ctx, opts)
}

// ──────────────────────────────────────────────────
// Treasury Fund
// ──────────────────────────────────────────────────

// TreasuryDeposit moves funds from the caller into the treasury fund. A
// native-denomination deposit debits the caller's token balance; foreign
// denominations are tracked as fund bookkeeping only.
func (e *Economy) TreasuryDeposit(ctx context.Context, denom string, amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	caller, err := e.caller(ctx)
	if err != nil {
		return err
	}
	if denom == "" {
		return ValidationError{Field: "denom", Message: "denomination is required"}
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if denom == types.NativeDenom {
		if err := e.store.Debit(ctx, caller, amount); err != nil {
			return err
		}
	}
	if err := e.store.TreasuryCredit(ctx, denom, amount); err != nil {
		return err
	}

	e.plugins.EmitTreasuryDeposit(ctx, caller, denom, amount)
	e.logger.Info("treasury deposit",
		"from", caller,
		"denom", denom,
		"amount", amount,
	)
	return nil
}

// TreasuryBalance returns the treasury fund balance for a denomination.
func (e *Economy) TreasuryBalance(ctx context.Context, denom string) (int64, error) {
	return e.store.TreasuryBalance(ctx, denom)
}

// ──────────────────────────────────────────────────
// Action execution
// ──────────────────────────────────────────────────

func validateAction(a governance.Action) error {
	switch a.Kind {
	case governance.ActionUpdateRate:
		if a.Model == "" || a.Rate <= 0 {
			return ErrInvalidAction
		}
	case governance.ActionUpdateTreasury, governance.ActionUpdateLiquidityPool:
		if a.Address == "" {
			return ErrInvalidAction
		}
	case governance.ActionTreasuryWithdrawal:
		if a.Address == "" || a.Denom == "" || a.Amount <= 0 {
			return ErrInvalidAction
		}
	default:
		return ErrInvalidAction
	}
	return nil
}

// applyAction executes one proposal action with governance authority.
// Rate updates remain subject to the relative delta bound. Callers hold
// e.mu.
func (e *Economy) applyAction(ctx context.Context, a governance.Action) error {
	switch a.Kind {
	case governance.ActionUpdateRate:
		return e.updateRate(ctx, a.Model, a.Rate)
	case governance.ActionUpdateTreasury:
		return e.updateTreasuryAddr(ctx, a.Address)
	case governance.ActionUpdateLiquidityPool:
		return e.updateLiquidityPoolAddr(ctx, a.Address)
	case governance.ActionTreasuryWithdrawal:
		if err := e.store.TreasuryDebit(ctx, a.Denom, a.Amount); err != nil {
			return err
		}
		if a.Denom == types.NativeDenom {
			return e.store.Credit(ctx, a.Address, a.Amount)
		}
		return nil
	default:
		return ErrInvalidAction
	}
}
