// Package types provides common value types used across Economy.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RateScale is the fixed-point scale of minting rates: a rate of 1000
// means one token unit minted per consumed unit.
const RateScale = 1000

// BpsScale is the basis-point scale used for revenue splits.
const BpsScale = 10000

// Amount represents a quantity of a token denomination in base units.
// All arithmetic is integer-only — no floating point.
//
// Examples:
//   - Share(10_000) = 10,000 base units of the native "share" denom
//   - New(500, "usdc") = 500 base units of an external denom
type Amount struct {
	Units int64  `json:"units"` // Base units
	Denom string `json:"denom"` // Lowercase denomination: "share", "usdc", ...
}

// NativeDenom is the denomination of the issuance token.
const NativeDenom = "share"

// New creates an Amount in the given denomination.
func New(units int64, denom string) Amount {
	return Amount{Units: units, Denom: strings.ToLower(denom)}
}

// Share creates an Amount in the native issuance-token denomination.
func Share(units int64) Amount { return Amount{Units: units, Denom: NativeDenom} }

// Zero returns a zero Amount in the specified denomination.
func Zero(denom string) Amount { return Amount{Units: 0, Denom: strings.ToLower(denom)} }

// Arithmetic operations

// Add adds two Amounts. Panics if denominations don't match.
func (a Amount) Add(other Amount) Amount {
	a.assertSameDenom(other)
	return Amount{Units: a.Units + other.Units, Denom: a.Denom}
}

// Subtract subtracts another Amount. Panics if denominations don't match.
func (a Amount) Subtract(other Amount) Amount {
	a.assertSameDenom(other)
	return Amount{Units: a.Units - other.Units, Denom: a.Denom}
}

// Multiply multiplies the Amount by a quantity.
func (a Amount) Multiply(qty int64) Amount {
	return Amount{Units: a.Units * qty, Denom: a.Denom}
}

// Divide divides the Amount by a divisor. Uses integer division.
func (a Amount) Divide(divisor int64) Amount {
	if divisor == 0 {
		panic("amount: division by zero")
	}
	return Amount{Units: a.Units / divisor, Denom: a.Denom}
}

// ApplyRate scales the Amount by a fixed-point minting rate
// (units * rate / RateScale, integer division).
func (a Amount) ApplyRate(rate int64) Amount {
	return Amount{Units: a.Units * rate / RateScale, Denom: a.Denom}
}

// Bps returns the given basis-point share of the Amount
// (units * bps / BpsScale, integer division).
func (a Amount) Bps(bps int64) Amount {
	return Amount{Units: a.Units * bps / BpsScale, Denom: a.Denom}
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a.Units == 0 }

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool { return a.Units > 0 }

// IsNegative returns true if the amount is less than zero.
func (a Amount) IsNegative() bool { return a.Units < 0 }

// Equal returns true if both Amounts are equal (same units and denom).
func (a Amount) Equal(other Amount) bool {
	return a.Units == other.Units && a.Denom == other.Denom
}

// LessThan returns true if this Amount is less than other. Panics if denominations don't match.
func (a Amount) LessThan(other Amount) bool {
	a.assertSameDenom(other)
	return a.Units < other.Units
}

// GreaterThan returns true if this Amount is greater than other. Panics if denominations don't match.
func (a Amount) GreaterThan(other Amount) bool {
	a.assertSameDenom(other)
	return a.Units > other.Units
}

// String returns a human-readable "<units> <denom>" representation.
func (a Amount) String() string {
	return fmt.Sprintf("%d %s", a.Units, a.Denom)
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Units   int64  `json:"units"`
		Denom   string `json:"denom"`
		Display string `json:"display"`
	}{
		Units:   a.Units,
		Denom:   a.Denom,
		Display: a.String(),
	})
}

// assertSameDenom panics if denominations don't match.
func (a Amount) assertSameDenom(other Amount) {
	if a.Denom != other.Denom {
		panic(fmt.Sprintf("amount: denom mismatch: %s != %s", a.Denom, other.Denom))
	}
}

// Sum calculates the sum of multiple Amounts. All must share a denomination.
func Sum(values ...Amount) Amount {
	if len(values) == 0 {
		return Zero(NativeDenom)
	}

	result := values[0]
	for i := 1; i < len(values); i++ {
		result = result.Add(values[i])
	}
	return result
}
