package usage

import (
	"testing"
	"time"

	"github.com/xraph/economy/types"
)

func baseRecord() *Record {
	return &Record{
		Entity:          types.NewEntityAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Model:           "claude-3-opus",
		PromptUnits:     1000,
		CompletionUnits: 2000,
		Consumer:        "addr-consumer",
		Provider:        "addr-provider",
		Sequence:        1,
	}
}

func TestComputeHashDeterministic(t *testing.T) {
	a := baseRecord()
	b := baseRecord()

	if ComputeHash(a) != ComputeHash(b) {
		t.Error("identical records must hash identically")
	}
	if len(ComputeHash(a)) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(ComputeHash(a)))
	}
}

func TestComputeHashSensitivity(t *testing.T) {
	base := ComputeHash(baseRecord())

	mutations := map[string]func(*Record){
		"model":            func(r *Record) { r.Model = "gpt-4-turbo" },
		"prompt units":     func(r *Record) { r.PromptUnits = 1001 },
		"completion units": func(r *Record) { r.CompletionUnits = 2001 },
		"consumer":         func(r *Record) { r.Consumer = "addr-other" },
		"provider":         func(r *Record) { r.Provider = "addr-other" },
		"timestamp":        func(r *Record) { r.CreatedAt = r.CreatedAt.Add(time.Nanosecond) },
		"sequence":         func(r *Record) { r.Sequence = 2 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			r := baseRecord()
			mutate(r)
			if ComputeHash(r) == base {
				t.Errorf("changing %s must change the hash", name)
			}
		})
	}
}

func TestTotalUnits(t *testing.T) {
	r := baseRecord()
	if r.TotalUnits() != 3000 {
		t.Errorf("TotalUnits: got %d, want 3000", r.TotalUnits())
	}
}
