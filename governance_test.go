package economy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	economy "github.com/xraph/economy"
	"github.com/xraph/economy/governance"
	"github.com/xraph/economy/id"
	"github.com/xraph/economy/store/memory"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/types"
)

// govHarness drives an engine with a controllable clock through the
// proposal lifecycle. Default parameters apply: 24h voting delay, 7d
// voting period, 10,000 proposal threshold, 48h timelock.
type govHarness struct {
	eco     *economy.Economy
	current time.Time
}

func (h *govHarness) advance(d time.Duration) { h.current = h.current.Add(d) }

func newGovHarness(t *testing.T) (*govHarness, context.Context) {
	t.Helper()

	h := &govHarness{current: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	h.eco = economy.New(memory.New(), economy.WithClock(func() time.Time { return h.current }))

	ctx := context.Background()
	if err := h.eco.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = h.eco.Stop() })

	err := h.eco.Initialize(ctx, token.Genesis{
		Name: "Compute Share", Symbol: "SHARE",
		Admin: adminAddr, Treasury: treasuryAddr, LiquidityPool: poolAddr,
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	adminCtx := economy.WithCaller(ctx, adminAddr)
	fund(t, h.eco, adminCtx, "addr-proposer", 10_000)
	fund(t, h.eco, adminCtx, "addr-voter-1", 5_000)
	fund(t, h.eco, adminCtx, "addr-voter-2", 2_000)

	return h, ctx
}

func rateAction(model string, rate int64) []governance.Action {
	return []governance.Action{{Kind: governance.ActionUpdateRate, Model: model, Rate: rate}}
}

func TestSubmitProposal(t *testing.T) {
	h, ctx := newGovHarness(t)
	proposerCtx := economy.WithCaller(ctx, "addr-proposer")

	prop, err := h.eco.SubmitProposal(proposerCtx, "raise opus rate", rateAction("claude-3-opus", 1100))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if prop.Status != governance.StatusPending {
		t.Errorf("status: got %v", prop.Status)
	}
	if got := prop.VotingStartsAt.Sub(h.current); got != 24*time.Hour {
		t.Errorf("voting delay: got %v", got)
	}
	if got := prop.VotingEndsAt.Sub(prop.VotingStartsAt); got != 7*24*time.Hour {
		t.Errorf("voting period: got %v", got)
	}

	// Balance below the threshold.
	poorCtx := economy.WithCaller(ctx, "addr-voter-1")
	if _, err := h.eco.SubmitProposal(poorCtx, "x", rateAction("claude-3-opus", 1100)); !errors.Is(err, economy.ErrBelowThreshold) {
		t.Errorf("below threshold: got %v", err)
	}

	// Description and action validation.
	if _, err := h.eco.SubmitProposal(proposerCtx, "", rateAction("claude-3-opus", 1100)); !economy.IsValidation(err) {
		t.Errorf("empty description: got %v", err)
	}
	if _, err := h.eco.SubmitProposal(proposerCtx, "x", nil); !errors.Is(err, economy.ErrInvalidAction) {
		t.Errorf("no actions: got %v", err)
	}
	if _, err := h.eco.SubmitProposal(proposerCtx, "x", rateAction("", 1100)); !errors.Is(err, economy.ErrInvalidAction) {
		t.Errorf("empty model: got %v", err)
	}
	bad := []governance.Action{{Kind: governance.ActionKind("reboot")}}
	if _, err := h.eco.SubmitProposal(proposerCtx, "x", bad); !errors.Is(err, economy.ErrInvalidAction) {
		t.Errorf("unknown kind: got %v", err)
	}
}

func TestCastVote(t *testing.T) {
	h, ctx := newGovHarness(t)
	proposerCtx := economy.WithCaller(ctx, "addr-proposer")
	voter1 := economy.WithCaller(ctx, "addr-voter-1")
	voter2 := economy.WithCaller(ctx, "addr-voter-2")

	prop, err := h.eco.SubmitProposal(proposerCtx, "raise opus rate", rateAction("claude-3-opus", 1100))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Before the window opens.
	if err := h.eco.CastVote(voter1, prop.ID, true); !errors.Is(err, economy.ErrVotingClosed) {
		t.Errorf("early vote: got %v", err)
	}

	h.advance(24 * time.Hour)

	if err := h.eco.CastVote(voter1, prop.ID, true); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := h.eco.CastVote(voter2, prop.ID, false); err != nil {
		t.Fatalf("vote against: %v", err)
	}

	got, err := h.eco.GetProposal(ctx, prop.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != governance.StatusActive {
		t.Errorf("status: got %v", got.Status)
	}
	if got.ForVotes != 5_000 || got.AgainstVotes != 2_000 {
		t.Errorf("tally: for=%d against=%d", got.ForVotes, got.AgainstVotes)
	}

	// One vote per address.
	if err := h.eco.CastVote(voter1, prop.ID, true); !errors.Is(err, economy.ErrAlreadyVoted) {
		t.Errorf("double vote: got %v", err)
	}

	// After the window closes.
	h.advance(7 * 24 * time.Hour)
	if err := h.eco.CastVote(proposerCtx, prop.ID, true); !errors.Is(err, economy.ErrVotingClosed) {
		t.Errorf("late vote: got %v", err)
	}
}

func TestQueueAndExecute(t *testing.T) {
	h, ctx := newGovHarness(t)
	proposerCtx := economy.WithCaller(ctx, "addr-proposer")
	voter1 := economy.WithCaller(ctx, "addr-voter-1")

	prop, err := h.eco.SubmitProposal(proposerCtx, "raise opus rate", rateAction("claude-3-opus", 1200))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Cannot queue while voting is open.
	h.advance(24 * time.Hour)
	if err := h.eco.CastVote(voter1, prop.ID, true); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := h.eco.QueueProposal(ctx, prop.ID); !errors.Is(err, economy.ErrVotingClosed) {
		t.Errorf("early queue: got %v", err)
	}

	h.advance(7 * 24 * time.Hour)
	if err := h.eco.QueueProposal(ctx, prop.ID); err != nil {
		t.Fatalf("queue: %v", err)
	}

	queued, _ := h.eco.GetProposal(ctx, prop.ID)
	if queued.Status != governance.StatusQueued {
		t.Errorf("status: got %v", queued.Status)
	}
	if queued.ETA == nil || !queued.ETA.Equal(h.current.Add(48*time.Hour)) {
		t.Errorf("eta: got %v", queued.ETA)
	}

	// Queueing twice conflicts.
	if err := h.eco.QueueProposal(ctx, prop.ID); !errors.Is(err, economy.ErrAlreadyExists) {
		t.Errorf("double queue: got %v", err)
	}

	// Timelock must elapse.
	if err := h.eco.ExecuteProposal(ctx, prop.ID); !errors.Is(err, economy.ErrTimelockNotReady) {
		t.Errorf("early execute: got %v", err)
	}

	h.advance(48 * time.Hour)
	if err := h.eco.ExecuteProposal(ctx, prop.ID); err != nil {
		t.Fatalf("execute: %v", err)
	}

	rate, err := h.eco.MintingRate(ctx, "claude-3-opus")
	if err != nil || rate != 1200 {
		t.Errorf("rate after execution: %d %v", rate, err)
	}

	executed, _ := h.eco.GetProposal(ctx, prop.ID)
	if executed.Status != governance.StatusExecuted {
		t.Errorf("status: got %v", executed.Status)
	}
}

func TestQueueDefeated(t *testing.T) {
	h, ctx := newGovHarness(t)
	proposerCtx := economy.WithCaller(ctx, "addr-proposer")
	voter2 := economy.WithCaller(ctx, "addr-voter-2")

	prop, err := h.eco.SubmitProposal(proposerCtx, "raise opus rate", rateAction("claude-3-opus", 1100))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	h.advance(24 * time.Hour)
	if err := h.eco.CastVote(voter2, prop.ID, false); err != nil {
		t.Fatalf("vote: %v", err)
	}

	h.advance(7 * 24 * time.Hour)
	if err := h.eco.QueueProposal(ctx, prop.ID); !errors.Is(err, economy.ErrProposalNotPassed) {
		t.Fatalf("queue defeated: got %v", err)
	}

	got, _ := h.eco.GetProposal(ctx, prop.ID)
	if got.Status != governance.StatusDefeated {
		t.Errorf("status: got %v", got.Status)
	}
}

func TestExecuteBoundedRate(t *testing.T) {
	h, ctx := newGovHarness(t)
	proposerCtx := economy.WithCaller(ctx, "addr-proposer")
	voter1 := economy.WithCaller(ctx, "addr-voter-1")

	// A doubled rate passes submission validation but the relative bound
	// still applies at execution time.
	prop, err := h.eco.SubmitProposal(proposerCtx, "double opus rate", rateAction("claude-3-opus", 2000))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	h.advance(24 * time.Hour)
	if err := h.eco.CastVote(voter1, prop.ID, true); err != nil {
		t.Fatalf("vote: %v", err)
	}
	h.advance(7 * 24 * time.Hour)
	if err := h.eco.QueueProposal(ctx, prop.ID); err != nil {
		t.Fatalf("queue: %v", err)
	}
	h.advance(48 * time.Hour)

	if err := h.eco.ExecuteProposal(ctx, prop.ID); !errors.Is(err, economy.ErrRateOutOfBounds) {
		t.Errorf("execute out of bounds: got %v", err)
	}
	rate, _ := h.eco.MintingRate(ctx, "claude-3-opus")
	if rate != 1000 {
		t.Errorf("rate mutated by failed execution: %d", rate)
	}
}

func TestTreasuryWithdrawalProposal(t *testing.T) {
	h, ctx := newGovHarness(t)
	proposerCtx := economy.WithCaller(ctx, "addr-proposer")
	voter1 := economy.WithCaller(ctx, "addr-voter-1")

	// Seed the fund from the proposer's token balance.
	if err := h.eco.TreasuryDeposit(proposerCtx, types.NativeDenom, 4_000); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	actions := []governance.Action{{
		Kind:    governance.ActionTreasuryWithdrawal,
		Address: "addr-grantee",
		Denom:   types.NativeDenom,
		Amount:  3_000,
	}}
	prop, err := h.eco.SubmitProposal(proposerCtx, "fund grantee", actions)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	h.advance(24 * time.Hour)
	if err := h.eco.CastVote(voter1, prop.ID, true); err != nil {
		t.Fatalf("vote: %v", err)
	}
	h.advance(7 * 24 * time.Hour)
	if err := h.eco.QueueProposal(ctx, prop.ID); err != nil {
		t.Fatalf("queue: %v", err)
	}
	h.advance(48 * time.Hour)
	if err := h.eco.ExecuteProposal(ctx, prop.ID); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if bal, _ := h.eco.BalanceOf(ctx, "addr-grantee"); bal != 3_000 {
		t.Errorf("grantee balance: %d", bal)
	}
	left, _ := h.eco.TreasuryBalance(ctx, types.NativeDenom)
	if left != 1_000 {
		t.Errorf("fund remainder: %d", left)
	}
}

func TestTreasuryDeposit(t *testing.T) {
	h, ctx := newGovHarness(t)
	proposerCtx := economy.WithCaller(ctx, "addr-proposer")

	// Native deposits debit the caller's token balance.
	if err := h.eco.TreasuryDeposit(proposerCtx, types.NativeDenom, 1_000); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if bal, _ := h.eco.BalanceOf(ctx, "addr-proposer"); bal != 9_000 {
		t.Errorf("proposer balance: %d", bal)
	}
	if bal, _ := h.eco.TreasuryBalance(ctx, types.NativeDenom); bal != 1_000 {
		t.Errorf("fund balance: %d", bal)
	}

	// Foreign denominations are bookkeeping only.
	if err := h.eco.TreasuryDeposit(proposerCtx, "usdc", 500); err != nil {
		t.Fatalf("foreign deposit: %v", err)
	}
	if bal, _ := h.eco.BalanceOf(ctx, "addr-proposer"); bal != 9_000 {
		t.Errorf("proposer balance after foreign deposit: %d", bal)
	}
	if bal, _ := h.eco.TreasuryBalance(ctx, "usdc"); bal != 500 {
		t.Errorf("usdc fund balance: %d", bal)
	}

	// Validation and shortfalls.
	if err := h.eco.TreasuryDeposit(proposerCtx, "", 100); !economy.IsValidation(err) {
		t.Errorf("empty denom: got %v", err)
	}
	if err := h.eco.TreasuryDeposit(proposerCtx, types.NativeDenom, 0); !errors.Is(err, economy.ErrInvalidAmount) {
		t.Errorf("zero amount: got %v", err)
	}
	if err := h.eco.TreasuryDeposit(proposerCtx, types.NativeDenom, 1_000_000); !errors.Is(err, economy.ErrInsufficientBalance) {
		t.Errorf("overdraw deposit: got %v", err)
	}
}

func TestListProposals(t *testing.T) {
	h, ctx := newGovHarness(t)
	proposerCtx := economy.WithCaller(ctx, "addr-proposer")
	voter1 := economy.WithCaller(ctx, "addr-voter-1")

	p1, err := h.eco.SubmitProposal(proposerCtx, "first", rateAction("claude-3-opus", 1100))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := h.eco.SubmitProposal(proposerCtx, "second", rateAction("gpt-4-turbo", 900)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	h.advance(24 * time.Hour)
	if err := h.eco.CastVote(voter1, p1.ID, true); err != nil {
		t.Fatalf("vote: %v", err)
	}

	all, err := h.eco.ListProposals(ctx, governance.ListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all: got %d", len(all))
	}
	if all[0].Description != "first" || all[1].Description != "second" {
		t.Errorf("submission order: %q, %q", all[0].Description, all[1].Description)
	}

	active, err := h.eco.ListProposals(ctx, governance.ListOpts{Status: governance.StatusActive})
	if err != nil {
		t.Fatalf("filtered: %v", err)
	}
	if len(active) != 1 || active[0].ID.String() != p1.ID.String() {
		t.Errorf("active filter: got %d", len(active))
	}

	if _, err := h.eco.GetProposal(ctx, id.NewProposalID()); !economy.IsNotFound(err) {
		t.Errorf("missing proposal: got %v", err)
	}
}
