package economy_test

import (
	"context"
	"errors"
	"testing"

	economy "github.com/xraph/economy"
	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/staking"
	"github.com/xraph/economy/store/memory"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/usage"
)

const (
	adminAddr    = "addr-admin"
	treasuryAddr = "addr-treasury"
	poolAddr     = "addr-pool"
	consumerAddr = "addr-consumer"
	providerAddr = "addr-provider"
)

// newTestEconomy returns a started, initialized engine over a memory store.
func newTestEconomy(t *testing.T) (*economy.Economy, context.Context) {
	t.Helper()

	eco := economy.New(memory.New())
	ctx := context.Background()
	if err := eco.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = eco.Stop() })

	err := eco.Initialize(ctx, token.Genesis{
		Name:          "Compute Share",
		Symbol:        "SHARE",
		Admin:         adminAddr,
		Treasury:      treasuryAddr,
		LiquidityPool: poolAddr,
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	return eco, economy.WithCaller(ctx, adminAddr)
}

// fund credits an address by airdropping as admin.
func fund(t *testing.T, eco *economy.Economy, adminCtx context.Context, addr string, amount int64) {
	t.Helper()
	if _, err := eco.BatchAirdrop(adminCtx, []string{addr}, []int64{amount}, "test funding"); err != nil {
		t.Fatalf("fund %s: %v", addr, err)
	}
}

func TestInitialize(t *testing.T) {
	eco, ctx := newTestEconomy(t)

	meta, err := eco.Protocol(ctx)
	if err != nil {
		t.Fatalf("protocol: %v", err)
	}
	if meta.Name != "Compute Share" || meta.Symbol != "SHARE" {
		t.Errorf("metadata: got %q/%q", meta.Name, meta.Symbol)
	}
	if meta.Treasury != treasuryAddr || meta.LiquidityPool != poolAddr {
		t.Errorf("addresses: got %q/%q", meta.Treasury, meta.LiquidityPool)
	}

	// Bootstrap capabilities, but not resolver.
	caps, err := eco.CapabilitiesOf(ctx, adminAddr)
	if err != nil {
		t.Fatalf("capabilities: %v", err)
	}
	if len(caps) != 4 {
		t.Fatalf("expected 4 bootstrap capabilities, got %d: %v", len(caps), caps)
	}
	for _, c := range caps {
		if c == authority.CapabilityResolver {
			t.Error("resolver must not be granted at genesis")
		}
	}

	// Default rates seeded.
	rates, err := eco.MintingRates(ctx)
	if err != nil {
		t.Fatalf("rates: %v", err)
	}
	if rates["claude-3-opus"] != 1000 || rates["seedance-2.0"] != 10000 {
		t.Errorf("default rates not seeded: %v", rates)
	}

	// Genesis is one-shot.
	err = eco.Initialize(ctx, token.Genesis{
		Name: "Again", Symbol: "AGN",
		Admin: adminAddr, Treasury: treasuryAddr, LiquidityPool: poolAddr,
	})
	if !errors.Is(err, economy.ErrAlreadyInitialized) {
		t.Errorf("second initialize: got %v, want ErrAlreadyInitialized", err)
	}
}

func TestInitializeValidation(t *testing.T) {
	eco := economy.New(memory.New())
	ctx := context.Background()

	err := eco.Initialize(ctx, token.Genesis{Name: "X", Symbol: "X", Admin: "", Treasury: "t", LiquidityPool: "p"})
	if !errors.Is(err, economy.ErrInvalidAddress) {
		t.Errorf("missing admin: got %v", err)
	}

	err = eco.Initialize(ctx, token.Genesis{Name: "", Symbol: "X", Admin: "a", Treasury: "t", LiquidityPool: "p"})
	if !economy.IsValidation(err) {
		t.Errorf("missing name: got %v", err)
	}
}

func TestCapabilities(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	if err := eco.GrantCapability(adminCtx, authority.CapabilityResolver, "addr-arbiter"); err != nil {
		t.Fatalf("grant: %v", err)
	}

	ok, err := eco.HasCapability(ctx, authority.CapabilityResolver, "addr-arbiter")
	if err != nil || !ok {
		t.Fatalf("has capability: ok=%v err=%v", ok, err)
	}

	// Non-admin cannot grant.
	outsiderCtx := economy.WithCaller(ctx, "addr-outsider")
	err = eco.GrantCapability(outsiderCtx, authority.CapabilityMinter, "addr-outsider")
	if !economy.IsAuthorization(err) {
		t.Errorf("unauthorized grant: got %v", err)
	}

	// Unknown capability rejected.
	err = eco.GrantCapability(adminCtx, authority.Capability("superuser"), "addr-arbiter")
	if !errors.Is(err, economy.ErrInvalidCapability) {
		t.Errorf("invalid capability: got %v", err)
	}

	// Revoke removes the grant.
	if err := eco.RevokeCapability(adminCtx, authority.CapabilityResolver, "addr-arbiter"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, _ = eco.HasCapability(ctx, authority.CapabilityResolver, "addr-arbiter")
	if ok {
		t.Error("capability should be revoked")
	}

	// Revoking an absent grant fails.
	err = eco.RevokeCapability(adminCtx, authority.CapabilityResolver, "addr-arbiter")
	if !errors.Is(err, economy.ErrGrantNotFound) {
		t.Errorf("revoke absent: got %v", err)
	}

	// Missing caller identity.
	err = eco.GrantCapability(ctx, authority.CapabilityMinter, "addr-x")
	if !errors.Is(err, economy.ErrUnauthorized) {
		t.Errorf("no caller: got %v", err)
	}
}

func TestMintByUsage(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	// 10,000 consumed at rate 1000 (scale 1000) mints 10,000 total.
	ev, err := eco.MintByUsage(adminCtx, "claude-3-opus", 10_000, providerAddr)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if ev.Split.Total != 10_000 {
		t.Errorf("total: got %d", ev.Split.Total)
	}

	checks := []struct {
		addr string
		want int64
	}{
		{providerAddr, 8500},
		{treasuryAddr, 1000},
		{poolAddr, 500},
	}
	for _, c := range checks {
		bal, err := eco.BalanceOf(ctx, c.addr)
		if err != nil {
			t.Fatalf("balance %s: %v", c.addr, err)
		}
		if bal != c.want {
			t.Errorf("balance %s: got %d, want %d", c.addr, bal, c.want)
		}
	}

	supply, err := eco.TotalSupply(ctx)
	if err != nil {
		t.Fatalf("supply: %v", err)
	}
	if supply != 10_000 {
		t.Errorf("supply: got %d, want 10000", supply)
	}
}

func TestMintByUsageErrors(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)

	if _, err := eco.MintByUsage(adminCtx, "unknown-model", 1000, providerAddr); !errors.Is(err, economy.ErrRateNotSet) {
		t.Errorf("unknown model: got %v", err)
	}
	if _, err := eco.MintByUsage(adminCtx, "claude-3-opus", 0, providerAddr); !errors.Is(err, economy.ErrInvalidAmount) {
		t.Errorf("zero consumption: got %v", err)
	}
	if _, err := eco.MintByUsage(adminCtx, "claude-3-opus", 1000, ""); !errors.Is(err, economy.ErrInvalidAddress) {
		t.Errorf("empty provider: got %v", err)
	}

	// Without minter capability.
	outsiderCtx := economy.WithCaller(context.Background(), "addr-outsider")
	if _, err := eco.MintByUsage(outsiderCtx, "claude-3-opus", 1000, providerAddr); !economy.IsAuthorization(err) {
		t.Errorf("unauthorized mint: got %v", err)
	}
}

func TestBatchAirdrop(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	batchID, err := eco.BatchAirdrop(adminCtx,
		[]string{"addr-a", "addr-b", "addr-c"},
		[]int64{100, 200, 300},
		"launch incentive")
	if err != nil {
		t.Fatalf("airdrop: %v", err)
	}
	if batchID.IsNil() {
		t.Fatal("expected batch ID")
	}

	for addr, want := range map[string]int64{"addr-a": 100, "addr-b": 200, "addr-c": 300} {
		bal, _ := eco.BalanceOf(ctx, addr)
		if bal != want {
			t.Errorf("balance %s: got %d, want %d", addr, bal, want)
		}
	}

	supply, _ := eco.TotalSupply(ctx)
	if supply != 600 {
		t.Errorf("supply: got %d, want 600", supply)
	}

	history, err := eco.AirdropHistory(ctx, "addr-b")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history length: got %d", len(history))
	}
	if history[0].BatchID.String() != batchID.String() || history[0].Amount.Units != 200 {
		t.Errorf("history entry: %+v", history[0])
	}
	if history[0].Reason != "launch incentive" {
		t.Errorf("reason: got %q", history[0].Reason)
	}
}

func TestBatchAirdropValidation(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	// Length mismatch leaves balances unchanged.
	_, err := eco.BatchAirdrop(adminCtx, []string{"addr-a", "addr-b"}, []int64{100}, "bad")
	if !errors.Is(err, economy.ErrLengthMismatch) {
		t.Fatalf("length mismatch: got %v", err)
	}
	if bal, _ := eco.BalanceOf(ctx, "addr-a"); bal != 0 {
		t.Errorf("balance leaked on failed airdrop: %d", bal)
	}

	// A single bad amount fails before any credit.
	_, err = eco.BatchAirdrop(adminCtx, []string{"addr-a", "addr-b"}, []int64{100, -5}, "bad")
	if !errors.Is(err, economy.ErrInvalidAmount) {
		t.Fatalf("negative amount: got %v", err)
	}
	if bal, _ := eco.BalanceOf(ctx, "addr-a"); bal != 0 {
		t.Errorf("balance leaked on failed airdrop: %d", bal)
	}

	// Empty batch.
	if _, err := eco.BatchAirdrop(adminCtx, nil, nil, "empty"); !economy.IsValidation(err) {
		t.Errorf("empty batch: got %v", err)
	}
}

func TestUpdateMintingRate(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	// Within ±20% of 1000.
	if err := eco.UpdateMintingRate(adminCtx, "claude-3-opus", 1200); err != nil {
		t.Fatalf("update +20%%: %v", err)
	}
	rate, _ := eco.MintingRate(ctx, "claude-3-opus")
	if rate != 1200 {
		t.Errorf("rate: got %d", rate)
	}

	// Out of bounds rejected and rate unchanged.
	err := eco.UpdateMintingRate(adminCtx, "claude-3-opus", 2000)
	if !errors.Is(err, economy.ErrRateOutOfBounds) {
		t.Fatalf("out of bounds: got %v", err)
	}
	rate, _ = eco.MintingRate(ctx, "claude-3-opus")
	if rate != 1200 {
		t.Errorf("rate mutated on failed update: %d", rate)
	}

	// New model is unbounded.
	if err := eco.UpdateMintingRate(adminCtx, "new-model-1.0", 50_000); err != nil {
		t.Fatalf("new model: %v", err)
	}

	// Unknown model read.
	if _, err := eco.MintingRate(ctx, "never-set"); !errors.Is(err, economy.ErrRateNotSet) {
		t.Errorf("rate not set: got %v", err)
	}
}

func TestUpdateProtocolAddresses(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	if err := eco.UpdateTreasury(adminCtx, "addr-treasury-2"); err != nil {
		t.Fatalf("update treasury: %v", err)
	}
	if err := eco.UpdateLiquidityPool(adminCtx, "addr-pool-2"); err != nil {
		t.Fatalf("update pool: %v", err)
	}

	meta, _ := eco.Protocol(ctx)
	if meta.Treasury != "addr-treasury-2" || meta.LiquidityPool != "addr-pool-2" {
		t.Errorf("addresses: %q/%q", meta.Treasury, meta.LiquidityPool)
	}

	// Subsequent mints pay the new addresses.
	if _, err := eco.MintByUsage(adminCtx, "claude-3-opus", 10_000, providerAddr); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if bal, _ := eco.BalanceOf(ctx, "addr-treasury-2"); bal != 1000 {
		t.Errorf("new treasury balance: %d", bal)
	}
	if bal, _ := eco.BalanceOf(ctx, treasuryAddr); bal != 0 {
		t.Errorf("old treasury credited: %d", bal)
	}
}

func TestRecordUsage(t *testing.T) {
	eco, _ := newTestEconomy(t)
	ctx := context.Background()

	hash, err := eco.RecordUsage(ctx, "gpt-4-turbo", 100, 200, consumerAddr, providerAddr)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(hash) != 64 {
		t.Fatalf("hash: got %q", hash)
	}

	rec, err := eco.GetUsage(ctx, hash)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.TotalUnits() != 300 {
		t.Errorf("total units: got %d", rec.TotalUnits())
	}
	if rec.Consumer != consumerAddr || rec.Provider != providerAddr {
		t.Errorf("parties: %q/%q", rec.Consumer, rec.Provider)
	}

	// Identical resubmission yields a distinct hash via the sequence.
	hash2, err := eco.RecordUsage(ctx, "gpt-4-turbo", 100, 200, consumerAddr, providerAddr)
	if err != nil {
		t.Fatalf("record again: %v", err)
	}
	if hash2 == hash {
		t.Error("identical submissions must produce distinct hashes")
	}

	// Validation.
	if _, err := eco.RecordUsage(ctx, "", 100, 200, consumerAddr, providerAddr); !economy.IsValidation(err) {
		t.Errorf("empty model: got %v", err)
	}
	if _, err := eco.RecordUsage(ctx, "gpt-4-turbo", -1, 200, consumerAddr, providerAddr); !economy.IsValidation(err) {
		t.Errorf("negative units: got %v", err)
	}
	if _, err := eco.GetUsage(ctx, "deadbeef"); !economy.IsNotFound(err) {
		t.Errorf("missing usage: got %v", err)
	}
}

func TestConsumerUsagePagination(t *testing.T) {
	eco, _ := newTestEconomy(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := eco.RecordUsage(ctx, "gpt-3.5-turbo", int64(i+1), 0, consumerAddr, providerAddr); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	page, err := eco.ConsumerUsage(ctx, consumerAddr, usage.PageOpts{Offset: 1, Limit: 2})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page length: got %d", len(page))
	}
	if page[0].PromptUnits != 2 || page[1].PromptUnits != 3 {
		t.Errorf("page order: %d, %d", page[0].PromptUnits, page[1].PromptUnits)
	}

	all, err := eco.ConsumerUsage(ctx, consumerAddr, usage.PageOpts{})
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("all length: got %d", len(all))
	}

	// Offset beyond the end is an empty page, not an error.
	empty, err := eco.ConsumerUsage(ctx, consumerAddr, usage.PageOpts{Offset: 100})
	if err != nil || len(empty) != 0 {
		t.Errorf("overshoot page: len=%d err=%v", len(empty), err)
	}
}

func TestSettlementLifecycle(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	hash, err := eco.RecordUsage(ctx, "claude-3-sonnet", 500, 500, consumerAddr, providerAddr)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	st, err := eco.SettleUsage(ctx, hash, consumerAddr, providerAddr, 5000)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if st.Status != settlement.StatusPending {
		t.Errorf("status: got %v", st.Status)
	}

	// Duplicate settlement rejected.
	if _, err := eco.SettleUsage(ctx, hash, consumerAddr, providerAddr, 5000); !errors.Is(err, economy.ErrSettlementExists) {
		t.Errorf("duplicate: got %v", err)
	}

	// Consumer disputes.
	consumerCtx := economy.WithCaller(ctx, consumerAddr)
	if err := eco.DisputeSettlement(consumerCtx, hash, "output truncated"); err != nil {
		t.Fatalf("dispute: %v", err)
	}
	st, _ = eco.GetSettlement(ctx, hash)
	if st.Status != settlement.StatusDisputed || st.DisputeReason != "output truncated" {
		t.Errorf("disputed state: %+v", st)
	}

	// Only the resolver (or admin) resolves; admin works as fallback.
	if err := eco.ResolveDispute(adminCtx, hash, settlement.ResolutionConfirmed); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	st, _ = eco.GetSettlement(ctx, hash)
	if st.Status != settlement.StatusConfirmed {
		t.Errorf("resolved status: %v", st.Status)
	}
	if st.ResolvedAt == nil {
		t.Error("resolved timestamp missing")
	}

	// A confirmed settlement may be re-disputed.
	if err := eco.DisputeSettlement(consumerCtx, hash, "still wrong"); err != nil {
		t.Fatalf("re-dispute: %v", err)
	}

	// Rejection is terminal.
	if err := eco.ResolveDispute(adminCtx, hash, settlement.ResolutionRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if err := eco.DisputeSettlement(consumerCtx, hash, "again"); !errors.Is(err, economy.ErrSettlementTerminal) {
		t.Errorf("dispute after rejection: got %v", err)
	}
}

func TestSettlementGuards(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	hash, _ := eco.RecordUsage(ctx, "claude-3-sonnet", 100, 100, consumerAddr, providerAddr)

	// Settlement parties must match the usage record.
	if _, err := eco.SettleUsage(ctx, hash, "addr-impostor", providerAddr, 100); !economy.IsValidation(err) {
		t.Errorf("party mismatch: got %v", err)
	}

	// Settlement requires an existing record.
	if _, err := eco.SettleUsage(ctx, "missing-hash", consumerAddr, providerAddr, 100); !economy.IsNotFound(err) {
		t.Errorf("missing usage: got %v", err)
	}

	if _, err := eco.SettleUsage(ctx, hash, consumerAddr, providerAddr, 0); !errors.Is(err, economy.ErrInvalidAmount) {
		t.Errorf("zero amount: got %v", err)
	}

	if _, err := eco.SettleUsage(ctx, hash, consumerAddr, providerAddr, 100); err != nil {
		t.Fatalf("settle: %v", err)
	}

	// Only the consumer disputes.
	providerCtx := economy.WithCaller(ctx, providerAddr)
	if err := eco.DisputeSettlement(providerCtx, hash, "nope"); !errors.Is(err, economy.ErrNotConsumer) {
		t.Errorf("provider dispute: got %v", err)
	}

	// A reason is required.
	consumerCtx := economy.WithCaller(ctx, consumerAddr)
	if err := eco.DisputeSettlement(consumerCtx, hash, ""); !economy.IsValidation(err) {
		t.Errorf("empty reason: got %v", err)
	}

	// Resolving a non-disputed settlement fails.
	if err := eco.ResolveDispute(adminCtx, hash, settlement.ResolutionConfirmed); !errors.Is(err, economy.ErrNotDisputed) {
		t.Errorf("resolve pending: got %v", err)
	}

	// Only the consumer confirms.
	if err := eco.ConfirmSettlement(providerCtx, hash); !errors.Is(err, economy.ErrNotConsumer) {
		t.Errorf("provider confirm: got %v", err)
	}
	if err := eco.ConfirmSettlement(consumerCtx, hash); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	// Confirming twice fails.
	if err := eco.ConfirmSettlement(consumerCtx, hash); !errors.Is(err, economy.ErrSettlementTerminal) {
		t.Errorf("double confirm: got %v", err)
	}
}

func TestProviderSettlements(t *testing.T) {
	eco, _ := newTestEconomy(t)
	ctx := context.Background()

	var hashes []string
	for i := 0; i < 3; i++ {
		h, _ := eco.RecordUsage(ctx, "gpt-4-turbo", int64(i+1)*100, 0, consumerAddr, providerAddr)
		if _, err := eco.SettleUsage(ctx, h, consumerAddr, providerAddr, int64(i+1)*100); err != nil {
			t.Fatalf("settle %d: %v", i, err)
		}
		hashes = append(hashes, h)
	}

	consumerCtx := economy.WithCaller(ctx, consumerAddr)
	if err := eco.ConfirmSettlement(consumerCtx, hashes[1]); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	all, err := eco.ProviderSettlements(ctx, providerAddr, settlement.ListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all: got %d", len(all))
	}

	pending := settlement.StatusPending
	got, err := eco.ProviderSettlements(ctx, providerAddr, settlement.ListOpts{Status: &pending})
	if err != nil {
		t.Fatalf("filtered: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("pending: got %d, want 2", len(got))
	}
}

func TestStaking(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	fund(t, eco, adminCtx, providerAddr, 50_000)
	providerCtx := economy.WithCaller(ctx, providerAddr)

	pos, err := eco.Stake(providerCtx, 10_000)
	if err != nil {
		t.Fatalf("stake: %v", err)
	}
	if pos.Amount != 10_000 || pos.Tier != 1 {
		t.Errorf("position: amount=%d tier=%d", pos.Amount, pos.Tier)
	}

	// Stake moved into custody.
	if bal, _ := eco.BalanceOf(ctx, providerAddr); bal != 40_000 {
		t.Errorf("provider balance: %d", bal)
	}
	if bal, _ := eco.BalanceOf(ctx, staking.PoolAccount); bal != 10_000 {
		t.Errorf("pool balance: %d", bal)
	}

	// Additional stake accumulates.
	pos, err = eco.Stake(providerCtx, 5_000)
	if err != nil {
		t.Fatalf("stake more: %v", err)
	}
	if pos.Amount != 15_000 || pos.Tier != 1 {
		t.Errorf("position: amount=%d tier=%d", pos.Amount, pos.Tier)
	}

	// Unstake below the tier threshold drops the tier.
	pos, err = eco.Unstake(providerCtx, 6_000)
	if err != nil {
		t.Fatalf("unstake: %v", err)
	}
	if pos.Amount != 9_000 || pos.Tier != 0 {
		t.Errorf("position: amount=%d tier=%d", pos.Amount, pos.Tier)
	}
	if bal, _ := eco.BalanceOf(ctx, providerAddr); bal != 41_000 {
		t.Errorf("provider balance after unstake: %d", bal)
	}

	// Cannot unstake more than staked.
	if _, err := eco.Unstake(providerCtx, 100_000); !errors.Is(err, economy.ErrInsufficientStake) {
		t.Errorf("overdraw unstake: got %v", err)
	}

	// Cannot stake more than the balance.
	if _, err := eco.Stake(providerCtx, 1_000_000); !errors.Is(err, economy.ErrInsufficientBalance) {
		t.Errorf("overdraw stake: got %v", err)
	}

	// Never-staked provider reads as tier 0.
	tier, err := eco.ProviderTier(ctx, "addr-nobody")
	if err != nil || tier != 0 {
		t.Errorf("unknown provider tier: tier=%d err=%v", tier, err)
	}

	info, err := eco.StakeInfo(ctx, providerAddr)
	if err != nil {
		t.Fatalf("stake info: %v", err)
	}
	if info.Amount != 9_000 {
		t.Errorf("stake info amount: %d", info.Amount)
	}
}

func TestTransfer(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	fund(t, eco, adminCtx, "addr-alice", 1000)
	aliceCtx := economy.WithCaller(ctx, "addr-alice")

	if err := eco.Transfer(aliceCtx, "addr-bob", 400); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if bal, _ := eco.BalanceOf(ctx, "addr-alice"); bal != 600 {
		t.Errorf("alice: %d", bal)
	}
	if bal, _ := eco.BalanceOf(ctx, "addr-bob"); bal != 400 {
		t.Errorf("bob: %d", bal)
	}

	if err := eco.Transfer(aliceCtx, "addr-bob", 10_000); !errors.Is(err, economy.ErrInsufficientBalance) {
		t.Errorf("overdraw: got %v", err)
	}
	if err := eco.Transfer(aliceCtx, "addr-bob", 0); !errors.Is(err, economy.ErrInvalidAmount) {
		t.Errorf("zero: got %v", err)
	}
	if err := eco.Transfer(aliceCtx, "", 10); !errors.Is(err, economy.ErrInvalidAddress) {
		t.Errorf("empty recipient: got %v", err)
	}
}

func TestApproveAndTransferFrom(t *testing.T) {
	eco, adminCtx := newTestEconomy(t)
	ctx := context.Background()

	fund(t, eco, adminCtx, "addr-owner", 1000)
	ownerCtx := economy.WithCaller(ctx, "addr-owner")
	spenderCtx := economy.WithCaller(ctx, "addr-spender")

	if err := eco.Approve(ownerCtx, "addr-spender", 500); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if allowed, _ := eco.Allowance(ctx, "addr-owner", "addr-spender"); allowed != 500 {
		t.Errorf("allowance: %d", allowed)
	}

	if err := eco.TransferFrom(spenderCtx, "addr-owner", "addr-dest", 300); err != nil {
		t.Fatalf("transfer from: %v", err)
	}
	if bal, _ := eco.BalanceOf(ctx, "addr-dest"); bal != 300 {
		t.Errorf("dest: %d", bal)
	}
	if allowed, _ := eco.Allowance(ctx, "addr-owner", "addr-spender"); allowed != 200 {
		t.Errorf("allowance after spend: %d", allowed)
	}

	// Exceeding the remaining allowance fails.
	if err := eco.TransferFrom(spenderCtx, "addr-owner", "addr-dest", 300); !errors.Is(err, economy.ErrInsufficientAllowance) {
		t.Errorf("over-allowance: got %v", err)
	}

	// Approve overwrites rather than accumulating.
	if err := eco.Approve(ownerCtx, "addr-spender", 50); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if allowed, _ := eco.Allowance(ctx, "addr-owner", "addr-spender"); allowed != 50 {
		t.Errorf("overwritten allowance: %d", allowed)
	}
}
