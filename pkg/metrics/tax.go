package metrics

// TaxSplit is a VAT-inclusive total broken into its net and tax parts.
// Subtotal + Tax always equals the original total.
type TaxSplit struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
}

// SplitTaxInclusive extracts the VAT contained in total at ratePct percent.
// The tax is rounded and the subtotal takes the remainder, so the two parts
// always add back up exactly.
func SplitTaxInclusive(total int64, ratePct float64) TaxSplit {
	t := float64(total)
	net := roundHalfUp(t / (1 + ratePct/100))
	tax := int64(roundHalfUp(t - net))
	return TaxSplit{Subtotal: total - tax, Tax: tax}
}

// NetTaxPayable is output VAT less input VAT, floored at zero.
func NetTaxPayable(outputTax, inputTax int64) int64 {
	return max(0, outputTax-inputTax)
}
