package governance

import (
	"testing"
	"time"
)

func TestVotingOpen(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	prop := &Proposal{VotingStartsAt: start, VotingEndsAt: end}

	tests := []struct {
		name string
		now  time.Time
		open bool
	}{
		{"before window", start.Add(-time.Second), false},
		{"exactly at start", start, true},
		{"inside window", start.Add(time.Hour), true},
		{"exactly at end", end, false},
		{"after window", end.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prop.VotingOpen(tt.now); got != tt.open {
				t.Errorf("VotingOpen(%v): got %v, want %v", tt.now, got, tt.open)
			}
		})
	}
}

func TestPassed(t *testing.T) {
	end := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		for_    int64
		against int64
		now     time.Time
		passed  bool
	}{
		{"majority after close", 100, 50, end, true},
		{"majority before close", 100, 50, end.Add(-time.Second), false},
		{"tie fails", 50, 50, end, false},
		{"minority fails", 40, 50, end, false},
		{"no votes fails", 0, 0, end, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := &Proposal{VotingEndsAt: end, ForVotes: tt.for_, AgainstVotes: tt.against}
			if got := prop.Passed(tt.now); got != tt.passed {
				t.Errorf("Passed(%v): got %v, want %v", tt.now, got, tt.passed)
			}
		})
	}
}

func TestExecutable(t *testing.T) {
	eta := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		status     Status
		eta        *time.Time
		now        time.Time
		executable bool
	}{
		{"queued and matured", StatusQueued, &eta, eta, true},
		{"queued after eta", StatusQueued, &eta, eta.Add(time.Hour), true},
		{"queued before eta", StatusQueued, &eta, eta.Add(-time.Second), false},
		{"queued without eta", StatusQueued, nil, eta, false},
		{"pending", StatusPending, &eta, eta, false},
		{"executed", StatusExecuted, &eta, eta, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop := &Proposal{Status: tt.status, ETA: tt.eta}
			if got := prop.Executable(tt.now); got != tt.executable {
				t.Errorf("Executable(%v): got %v, want %v", tt.now, got, tt.executable)
			}
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()

	if p.VotingDelay != 24*time.Hour {
		t.Errorf("VotingDelay: got %v", p.VotingDelay)
	}
	if p.VotingPeriod != 7*24*time.Hour {
		t.Errorf("VotingPeriod: got %v", p.VotingPeriod)
	}
	if p.ProposalThreshold != 10_000 {
		t.Errorf("ProposalThreshold: got %d", p.ProposalThreshold)
	}
	if p.TimelockDelay != 48*time.Hour {
		t.Errorf("TimelockDelay: got %v", p.TimelockDelay)
	}
}
