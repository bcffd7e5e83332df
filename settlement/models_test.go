package settlement

import "testing"

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusConfirmed, "confirmed"},
		{StatusDisputed, "disputed"},
		{StatusRejected, "rejected"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String(): got %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusValuesStable(t *testing.T) {
	// Persisted numeric values; must never be reordered.
	if StatusPending != 0 || StatusConfirmed != 1 || StatusDisputed != 2 || StatusRejected != 3 {
		t.Fatalf("status enum values changed: %d %d %d %d",
			StatusPending, StatusConfirmed, StatusDisputed, StatusRejected)
	}
}

func TestResolutionValid(t *testing.T) {
	if !ResolutionConfirmed.Valid() {
		t.Error("confirmed resolution should be valid")
	}
	if !ResolutionRejected.Valid() {
		t.Error("rejected resolution should be valid")
	}
	if Resolution(StatusPending).Valid() {
		t.Error("pending is not a legal resolution")
	}
	if Resolution(StatusDisputed).Valid() {
		t.Error("disputed is not a legal resolution")
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name       string
		status     Status
		canDispute bool
		canResolve bool
		canConfirm bool
	}{
		{"pending", StatusPending, true, false, true},
		{"confirmed re-disputable", StatusConfirmed, true, false, false},
		{"disputed", StatusDisputed, false, true, false},
		{"rejected terminal", StatusRejected, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settlement{Status: tt.status}
			if got := s.CanDispute(); got != tt.canDispute {
				t.Errorf("CanDispute: got %v, want %v", got, tt.canDispute)
			}
			if got := s.CanResolve(); got != tt.canResolve {
				t.Errorf("CanResolve: got %v, want %v", got, tt.canResolve)
			}
			if got := s.CanConfirm(); got != tt.canConfirm {
				t.Errorf("CanConfirm: got %v, want %v", got, tt.canConfirm)
			}
		})
	}
}
