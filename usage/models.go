// Package usage defines immutable, content-addressed usage records.
package usage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/xraph/economy/types"
)

// Record is one metered inference call. Records are immutable: once stored
// they are never mutated or deleted, and settlements reference them by hash.
type Record struct {
	types.Entity
	Hash            string `json:"hash"`
	Model           string `json:"model"`
	PromptUnits     int64  `json:"prompt_units"`
	CompletionUnits int64  `json:"completion_units"`
	Consumer        string `json:"consumer"`
	Provider        string `json:"provider"`

	// Sequence disambiguates records with identical logical content
	// submitted within the same timestamp. It is part of the hash input.
	Sequence uint64 `json:"sequence"`
}

// TotalUnits returns the total consumed units of the record.
func (r *Record) TotalUnits() int64 {
	return r.PromptUnits + r.CompletionUnits
}

// ComputeHash derives the content address of the record from its canonical
// serialization. The creation timestamp and sequence are included so that
// repeated submissions with identical logical content hash differently.
func ComputeHash(r *Record) string {
	canonical := fmt.Sprintf("%s|%d|%d|%s|%s|%d|%d",
		r.Model,
		r.PromptUnits,
		r.CompletionUnits,
		r.Consumer,
		r.Provider,
		r.CreatedAt.UnixNano(),
		r.Sequence,
	)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// PageOpts selects a page of consumer usage hashes in insertion order.
// A Limit of math.MaxInt means "no upper bound".
type PageOpts struct {
	Offset int
	Limit  int
}
