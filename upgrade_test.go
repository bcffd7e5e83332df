package economy_test

import (
	"context"
	"errors"
	"testing"

	economy "github.com/xraph/economy"
	"github.com/xraph/economy/authority"
	"github.com/xraph/economy/settlement"
	"github.com/xraph/economy/store/memory"
	"github.com/xraph/economy/token"
	"github.com/xraph/economy/usage"
)

// TestEngineRestart rebuilds an engine over the same store and verifies
// all state survives: an engine holds no state of its own beyond the
// usage sequence counter.
func TestEngineRestart(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	first := economy.New(st)
	if err := first.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	err := first.Initialize(ctx, token.Genesis{
		Name: "Compute Share", Symbol: "SHARE",
		Admin: adminAddr, Treasury: treasuryAddr, LiquidityPool: poolAddr,
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	adminCtx := economy.WithCaller(ctx, adminAddr)
	if err := first.GrantCapability(adminCtx, authority.CapabilityResolver, "addr-arbiter"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := first.UpdateMintingRate(adminCtx, "claude-3-opus", 1100); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := first.MintByUsage(adminCtx, "gpt-4-turbo", 10_000, providerAddr); err != nil {
		t.Fatalf("mint: %v", err)
	}

	hash, err := first.RecordUsage(ctx, "gpt-4-turbo", 100, 200, consumerAddr, providerAddr)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := first.SettleUsage(ctx, hash, consumerAddr, providerAddr, 300); err != nil {
		t.Fatalf("settle: %v", err)
	}

	providerCtx := economy.WithCaller(ctx, providerAddr)
	if _, err := first.Stake(providerCtx, 5_000); err != nil {
		t.Fatalf("stake: %v", err)
	}

	if err := first.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// A fresh engine over the same store sees everything.
	second := economy.New(st)
	if err := second.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	t.Cleanup(func() { _ = second.Stop() })

	err = second.Initialize(ctx, token.Genesis{
		Name: "Other", Symbol: "OTH",
		Admin: adminAddr, Treasury: treasuryAddr, LiquidityPool: poolAddr,
	})
	if !errors.Is(err, economy.ErrAlreadyInitialized) {
		t.Errorf("re-initialize after restart: got %v", err)
	}

	if ok, _ := second.HasCapability(ctx, authority.CapabilityResolver, "addr-arbiter"); !ok {
		t.Error("resolver grant lost on restart")
	}
	if rate, _ := second.MintingRate(ctx, "claude-3-opus"); rate != 1100 {
		t.Errorf("rate lost on restart: %d", rate)
	}

	// gpt-4-turbo rate 800 over 10,000 consumed mints 8,000 total, of
	// which the provider keeps 85%. 5,000 was then staked.
	if bal, _ := second.BalanceOf(ctx, providerAddr); bal != 6_800-5_000 {
		t.Errorf("provider balance: %d", bal)
	}
	if supply, _ := second.TotalSupply(ctx); supply != 8_000 {
		t.Errorf("supply: %d", supply)
	}

	rec, err := second.GetUsage(ctx, hash)
	if err != nil {
		t.Fatalf("usage after restart: %v", err)
	}
	if rec.TotalUnits() != 300 {
		t.Errorf("usage units: %d", rec.TotalUnits())
	}

	sett, err := second.GetSettlement(ctx, hash)
	if err != nil {
		t.Fatalf("settlement after restart: %v", err)
	}
	if sett.Status != settlement.StatusPending {
		t.Errorf("settlement status: %v", sett.Status)
	}

	pos, err := second.StakeInfo(ctx, providerAddr)
	if err != nil {
		t.Fatalf("stake after restart: %v", err)
	}
	if pos.Amount != 5_000 {
		t.Errorf("stake amount: %d", pos.Amount)
	}

	// The restarted engine keeps appending to the consumer's record
	// stream without colliding with pre-restart hashes.
	hash2, err := second.RecordUsage(ctx, "gpt-4-turbo", 100, 200, consumerAddr, providerAddr)
	if err != nil {
		t.Fatalf("record after restart: %v", err)
	}
	if hash2 == hash {
		t.Error("post-restart record must not collide")
	}

	records, err := second.ConsumerUsage(ctx, consumerAddr, usage.PageOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records: got %d", len(records))
	}
}
