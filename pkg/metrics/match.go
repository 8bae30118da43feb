package metrics

import "math"

// MatchStatus classifies a purchase order against its supplier invoice.
type MatchStatus string

// Three-way match outcomes.
const (
	MatchOK       MatchStatus = "match"
	MatchVariance MatchStatus = "variance"
	MatchMissing  MatchStatus = "missing"
)

// Tolerances for ThreeWayMatchStatus, as fractions of the order amount.
const (
	MatchTolerance    = 0.01
	VarianceTolerance = 0.10
)

// ThreeWayMatchStatus compares the invoiced amount with the order amount.
// Under 1% difference is a match, under 10% a variance, anything else is
// treated as missing. A zero order matches only a zero invoice.
func ThreeWayMatchStatus(poAmount, invoiceAmount int64) MatchStatus {
	if poAmount == 0 {
		if invoiceAmount == 0 {
			return MatchOK
		}
		return MatchMissing
	}
	ratio := math.Abs(float64(invoiceAmount-poAmount)) / math.Abs(float64(poAmount))
	switch {
	case ratio < MatchTolerance:
		return MatchOK
	case ratio < VarianceTolerance:
		return MatchVariance
	default:
		return MatchMissing
	}
}
