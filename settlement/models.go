// Package settlement defines the payment obligation derived from a usage
// record and its dispute state machine.
//
// The state machine is Pending → {Confirmed, Disputed} and
// Disputed → {Confirmed, Rejected}. A Confirmed settlement may re-enter
// Disputed: the original protocol allows a consumer to dispute after an
// optimistic confirmation, and that behavior is preserved here pending
// product review. Rejected and post-resolution Confirmed are terminal for
// everything except that re-dispute path.
package settlement

import (
	"time"

	"github.com/xraph/economy/types"
)

// Status is the lifecycle state of a settlement.
// The numeric order matches the original protocol's enum and is persisted,
// so values must never be reordered.
type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusDisputed
	StatusRejected
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusDisputed:
		return "disputed"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Resolution selects the terminal state of a dispute.
type Resolution int

const (
	ResolutionConfirmed Resolution = Resolution(StatusConfirmed)
	ResolutionRejected  Resolution = Resolution(StatusRejected)
)

// Valid reports whether r names a legal dispute outcome.
func (r Resolution) Valid() bool {
	return r == ResolutionConfirmed || r == ResolutionRejected
}

// Settlement is the payment obligation for one usage record.
// Settlement is optimistic: it is recorded immediately in Pending status
// and remains subject to later dispute rather than being escrowed.
type Settlement struct {
	types.Entity
	UsageHash     string     `json:"usage_hash"`
	Consumer      string     `json:"consumer"`
	Provider      string     `json:"provider"`
	Amount        int64      `json:"amount"`
	Status        Status     `json:"status"`
	DisputeReason string     `json:"dispute_reason,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// CanDispute reports whether the settlement may transition to Disputed.
func (s *Settlement) CanDispute() bool {
	return s.Status == StatusPending || s.Status == StatusConfirmed
}

// CanResolve reports whether the settlement may be resolved.
func (s *Settlement) CanResolve() bool {
	return s.Status == StatusDisputed
}

// CanConfirm reports whether the settlement may be confirmed directly,
// without a dispute having been raised.
func (s *Settlement) CanConfirm() bool {
	return s.Status == StatusPending
}

// ListOpts filters settlement listings.
type ListOpts struct {
	Status *Status
	Limit  int
}
