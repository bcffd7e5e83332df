package token

import "testing"

func TestSplitExact(t *testing.T) {
	split := Split(10_000)

	if split.Total != 10_000 {
		t.Errorf("Total: got %d, want %d", split.Total, 10_000)
	}
	if split.Treasury != 1000 {
		t.Errorf("Treasury: got %d, want %d", split.Treasury, 1000)
	}
	if split.LiquidityPool != 500 {
		t.Errorf("LiquidityPool: got %d, want %d", split.LiquidityPool, 500)
	}
	if split.Provider != 8500 {
		t.Errorf("Provider: got %d, want %d", split.Provider, 8500)
	}
}

func TestSplitConservation(t *testing.T) {
	// Rounding remainders accrue to the provider so the split always
	// conserves the total.
	amounts := []int64{1, 2, 3, 7, 99, 100, 101, 999, 10_000, 10_001, 123_456_789}

	for _, amount := range amounts {
		split := Split(amount)
		sum := split.Provider + split.Treasury + split.LiquidityPool
		if sum != split.Total {
			t.Errorf("Split(%d): parts sum to %d, want %d", amount, sum, split.Total)
		}
		if split.Provider < split.Treasury {
			t.Errorf("Split(%d): provider %d smaller than treasury %d", amount, split.Provider, split.Treasury)
		}
	}
}

func TestRateInBounds(t *testing.T) {
	tests := []struct {
		name    string
		oldRate int64
		newRate int64
		ok      bool
	}{
		{"new model unbounded", 0, 999_999, true},
		{"unchanged", 1000, 1000, true},
		{"exact +20%", 1000, 1200, true},
		{"exact -20%", 1000, 800, true},
		{"just above bound", 1000, 1201, false},
		{"just below bound", 1000, 799, false},
		{"small rate up", 100, 120, true},
		{"small rate over", 100, 121, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RateInBounds(tt.oldRate, tt.newRate); got != tt.ok {
				t.Errorf("RateInBounds(%d, %d): got %v, want %v", tt.oldRate, tt.newRate, got, tt.ok)
			}
		})
	}
}

func TestDefaultMintingRates(t *testing.T) {
	rates := DefaultMintingRates()

	expected := map[string]int64{
		"claude-3-opus":   1000,
		"claude-3-sonnet": 500,
		"gpt-4-turbo":     800,
		"gpt-3.5-turbo":   100,
		"seedance-2.0":    10000,
	}

	if len(rates) != len(expected) {
		t.Fatalf("got %d rates, want %d", len(rates), len(expected))
	}
	for model, rate := range expected {
		if rates[model] != rate {
			t.Errorf("%s: got %d, want %d", model, rates[model], rate)
		}
	}

	// The map is a fresh copy each call.
	rates["claude-3-opus"] = 0
	if DefaultMintingRates()["claude-3-opus"] != 1000 {
		t.Error("DefaultMintingRates must return a fresh map")
	}
}
