package metrics

// Variance compares actual spend with plan.
type Variance struct {
	Pct        float64 `json:"pct"`
	OverBudget bool    `json:"over_budget"`
}

// BudgetVariance returns actual as a percentage of planned (0 when nothing
// was planned) and whether actual exceeds planned.
func BudgetVariance(planned, actual int64) Variance {
	v := Variance{OverBudget: actual > planned}
	if planned != 0 {
		v.Pct = float64(actual) / float64(planned) * 100
	}
	return v
}
