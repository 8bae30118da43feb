package metrics

import "iter"

// DailyFunc returns an amount for a zero-based day offset.
type DailyFunc func(day int) int64

// CashFlowProjection yields (day, balance) for days 0..days-1, where each
// balance is the previous one plus income(day) minus expense(day), starting
// from startingBalance. The sequence is lazy and can be ranged over again
// to recompute it. Balances are never clamped; use DisplayBalance when a
// view must not show negatives.
func CashFlowProjection(startingBalance int64, income, expense DailyFunc, days int) iter.Seq2[int, int64] {
	return func(yield func(int, int64) bool) {
		balance := startingBalance
		for day := 0; day < days; day++ {
			if income != nil {
				balance += income(day)
			}
			if expense != nil {
				balance -= expense(day)
			}
			if !yield(day, balance) {
				return
			}
		}
	}
}

// DisplayBalance clamps a projected balance at zero for presentation.
func DisplayBalance(balance int64) int64 {
	return max(0, balance)
}

// LowestBalance returns the minimum balance in a projection and the day it
// occurs. An empty projection returns startingBalance at day -1.
func LowestBalance(startingBalance int64, seq iter.Seq2[int, int64]) (day int, balance int64) {
	day, balance = -1, startingBalance
	for d, b := range seq {
		if day == -1 || b < balance {
			day, balance = d, b
		}
	}
	return day, balance
}
