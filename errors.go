package economy

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound       = errors.New("economy: not found")
	ErrAlreadyExists  = errors.New("economy: already exists")
	ErrInvalidInput   = errors.New("economy: invalid input")
	ErrUnauthorized   = errors.New("economy: unauthorized")
	ErrInvalidAddress = errors.New("economy: invalid address")
	ErrInvalidAmount  = errors.New("economy: amount must be positive")

	// Protocol errors
	ErrAlreadyInitialized = errors.New("economy: protocol already initialized")
	ErrNotInitialized     = errors.New("economy: protocol not initialized")

	// Authority errors
	ErrInvalidCapability = errors.New("economy: invalid capability")
	ErrGrantNotFound     = errors.New("economy: capability grant not found")

	// Token errors
	ErrRateNotSet            = errors.New("economy: no minting rate for model")
	ErrRateOutOfBounds       = errors.New("economy: rate change exceeds bound")
	ErrLengthMismatch        = errors.New("economy: recipients and amounts length mismatch")
	ErrInsufficientBalance   = errors.New("economy: insufficient balance")
	ErrInsufficientAllowance = errors.New("economy: insufficient allowance")

	// Usage errors
	ErrUsageNotFound = errors.New("economy: usage record not found")
	ErrNotConsumer   = errors.New("economy: caller is not the record consumer")

	// Settlement errors
	ErrSettlementNotFound = errors.New("economy: settlement not found")
	ErrSettlementExists   = errors.New("economy: settlement already exists for usage")
	ErrSettlementTerminal = errors.New("economy: settlement is in a terminal state")
	ErrNotDisputed        = errors.New("economy: settlement is not disputed")
	ErrInvalidResolution  = errors.New("economy: invalid dispute resolution")

	// Staking errors
	ErrInsufficientStake = errors.New("economy: insufficient staked amount")
	ErrStakeNotFound     = errors.New("economy: stake position not found")

	// Governance errors
	ErrProposalNotFound  = errors.New("economy: proposal not found")
	ErrBelowThreshold    = errors.New("economy: balance below proposal threshold")
	ErrVotingClosed      = errors.New("economy: voting window is closed")
	ErrAlreadyVoted      = errors.New("economy: address already voted")
	ErrProposalNotPassed = errors.New("economy: proposal did not pass")
	ErrTimelockNotReady  = errors.New("economy: timelock delay has not elapsed")
	ErrInvalidAction     = errors.New("economy: invalid proposal action")

	// Treasury errors
	ErrTreasuryInsufficient = errors.New("economy: insufficient treasury funds")

	// Store errors
	ErrStoreNotReady     = errors.New("economy: store not ready")
	ErrStoreClosed       = errors.New("economy: store is closed")
	ErrTransactionFailed = errors.New("economy: transaction failed")
	ErrMigrationFailed   = errors.New("economy: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("economy: validation failed for %s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUsageNotFound) ||
		errors.Is(err, ErrSettlementNotFound) ||
		errors.Is(err, ErrStakeNotFound) ||
		errors.Is(err, ErrProposalNotFound) ||
		errors.Is(err, ErrGrantNotFound)
}

// IsAuthorization returns true if the error is an authorization failure.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotConsumer) ||
		errors.Is(err, ErrBelowThreshold)
}

// IsValidation returns true if the error is an input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidCapability) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrInvalidResolution) ||
		errors.Is(err, ErrInvalidAction)
}

// IsConflict returns true if the error is a state conflict: a duplicate,
// an illegal lifecycle transition, or a premature operation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrAlreadyInitialized) ||
		errors.Is(err, ErrSettlementExists) ||
		errors.Is(err, ErrSettlementTerminal) ||
		errors.Is(err, ErrNotDisputed) ||
		errors.Is(err, ErrAlreadyVoted) ||
		errors.Is(err, ErrVotingClosed) ||
		errors.Is(err, ErrProposalNotPassed) ||
		errors.Is(err, ErrTimelockNotReady)
}

// IsInsufficientFunds returns true if the error is a balance, allowance,
// stake, or treasury shortfall.
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInsufficientAllowance) ||
		errors.Is(err, ErrInsufficientStake) ||
		errors.Is(err, ErrTreasuryInsufficient)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
