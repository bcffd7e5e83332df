package staking

import "testing"

func TestTierFor(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		tier   int
	}{
		{"zero", 0, 0},
		{"below first threshold", 9_999, 0},
		{"exactly tier one", 10_000, 1},
		{"mid tier one", 50_000, 1},
		{"exactly tier two", 100_000, 2},
		{"mid tier two", 999_999, 2},
		{"exactly tier three", 1_000_000, 3},
		{"above top tier", 10_000_000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierFor(tt.amount, DefaultTierThresholds); got != tt.tier {
				t.Errorf("TierFor(%d): got %d, want %d", tt.amount, got, tt.tier)
			}
		})
	}
}

func TestTierForCustomThresholds(t *testing.T) {
	thresholds := []int64{0, 100, 1000}

	if got := TierFor(99, thresholds); got != 0 {
		t.Errorf("got tier %d, want 0", got)
	}
	if got := TierFor(100, thresholds); got != 1 {
		t.Errorf("got tier %d, want 1", got)
	}
	if got := TierFor(5000, thresholds); got != 2 {
		t.Errorf("got tier %d, want 2", got)
	}
}

func TestDefaultTierThresholds(t *testing.T) {
	for i := 1; i < len(DefaultTierThresholds); i++ {
		if DefaultTierThresholds[i] <= DefaultTierThresholds[i-1] {
			t.Fatalf("thresholds not strictly increasing at index %d", i)
		}
	}
}
