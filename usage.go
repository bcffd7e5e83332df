package economy

import (
	"context"

	"github.com/xraph/economy/types"
	"github.com/xraph/economy/usage"
)

// ──────────────────────────────────────────────────
// Usage Recording
// ──────────────────────────────────────────────────

// RecordUsage stores an immutable usage record for one inference call and
// returns its content hash. Settlements reference the record by that hash.
func (e *Economy) RecordUsage(ctx context.Context, model string, promptUnits, completionUnits int64, consumer, provider string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if model == "" {
		return "", ValidationError{Field: "model", Message: "model is required"}
	}
	if consumer == "" || provider == "" {
		return "", ErrInvalidAddress
	}
	if promptUnits < 0 || completionUnits < 0 || promptUnits+completionUnits <= 0 {
		return "", ErrInvalidAmount
	}

	rec := &usage.Record{
		Entity:          types.NewEntityAt(e.now()),
		Model:           model,
		PromptUnits:     promptUnits,
		CompletionUnits: completionUnits,
		Consumer:        consumer,
		Provider:        provider,
		Sequence:        e.usageSeq.Add(1),
	}
	rec.Hash = usage.ComputeHash(rec)

	if err := e.store.CreateUsage(ctx, rec); err != nil {
		return "", err
	}

	e.plugins.EmitUsageRecorded(ctx, rec)
	e.logger.Debug("usage recorded",
		"hash", rec.Hash,
		"model", model,
		"units", rec.TotalUnits(),
		"consumer", consumer,
		"provider", provider,
	)
	return rec.Hash, nil
}

// GetUsage retrieves a usage record by content hash.
func (e *Economy) GetUsage(ctx context.Context, hash string) (*usage.Record, error) {
	return e.store.GetUsage(ctx, hash)
}

// ConsumerUsage pages a consumer's usage records in insertion order. A
// non-positive limit returns the unbounded tail from the offset.
func (e *Economy) ConsumerUsage(ctx context.Context, consumer string, opts usage.PageOpts) ([]*usage.Record, error) {
	if opts.Offset < 0 {
		return nil, ValidationError{Field: "offset", Message: "offset must be non-negative"}
	}
	return e.store.ConsumerUsage(ctx, consumer, opts)
}
