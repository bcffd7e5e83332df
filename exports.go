package economy

import "github.com/xraph/economy/types"

// Re-export common types for convenience so users don't have to import types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Entity is re-exported from types package.
type Entity = types.Entity

// Re-export Amount constructors
var (
	Share = types.Share
	Zero  = types.Zero
	Sum   = types.Sum
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
