// Package metrics holds the pure reducers behind the dashboard and report
// screens: VAT (QQS) splitting, inventory aging and valuation, budget
// variance, three-way purchase matching and cash-flow projection.
//
// Every function is total. Empty input yields zero values, never an error.
// Amounts are whole so'm held in int64.
package metrics

import "math"

// roundHalfUp rounds to the nearest integer with halves going up, matching
// the rounding used for receipts (2.5 → 3, -2.5 → -2).
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
