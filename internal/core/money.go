// Package core holds the transaction domain model and the pure
// aggregation logic shared by the API and its tests.
//
// This file contains conversions between the wire representation of an
// amount (a decimal number of dollars) and the internal one (integer
// cents). Calculations always happen on cents to avoid floating-point
// accumulation errors.
package core

import "math"

// maxSafeCents guards the dollars-to-cents multiplication against overflow.
const maxSafeCents = float64(1<<62) / 100

// DollarsToCents converts a decimal dollar amount to cents with
// half-away-from-zero rounding on fractions of a cent. Only strictly
// positive, finite amounts are accepted.
//
// Examples:
//
//	DollarsToCents(12.34)  -> 1234, nil
//	DollarsToCents(12.345) -> 1235, nil (rounds up)
//	DollarsToCents(0)      -> 0, ErrInvalidAmount
func DollarsToCents(dollars float64) (int64, error) {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return 0, ErrInvalidAmount
	}
	if dollars <= 0 || dollars > maxSafeCents {
		return 0, ErrInvalidAmount
	}
	cents := int64(math.Round(dollars * 100))
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Dollars returns the dollar value as a float64 for the JSON boundary and
// display. Use cents for any arithmetic.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}
