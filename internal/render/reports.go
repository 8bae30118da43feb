package render

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/mesh-intelligence/buxgalter/pkg/metrics"
)

func rightAligned(from int) func(int) bool {
	return func(col int) bool { return col >= from }
}

// VAT writes the VAT position as a two-column table.
func (p *Printer) VAT(r metrics.VATReport) error {
	cells := [][]string{
		{"Sales (incl. VAT)", p.Amount(r.Sales)},
		{"Output VAT", p.Amount(r.OutputTax)},
		{"Purchases (incl. VAT)", p.Amount(r.Purchases)},
		{"Input VAT", p.Amount(r.InputTax)},
		{"VAT payable", p.Amount(r.Payable)},
	}
	return p.grid([]string{"Item", "Amount"}, cells, rightAligned(1))
}

// Aging writes stock totals per age bucket.
func (p *Printer) Aging(rows []metrics.AgingRow) error {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{string(r.Bucket), strconv.Itoa(r.Lots), p.Amount(r.Quantity), p.Amount(r.Value)}
	}
	return p.grid([]string{"Days", "Lots", "Quantity", "Value"}, cells, rightAligned(1))
}

// Budget writes budget lines with their variance. Overspent lines are
// flagged.
func (p *Printer) Budget(rows []metrics.BudgetRow) error {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		flag := ""
		if r.OverBudget {
			flag = "over"
		}
		cells[i] = []string{r.Category, r.Period, p.Amount(r.Planned), p.Amount(r.Actual),
			fmt.Sprintf("%.1f%%", r.Pct), flag}
	}
	return p.grid([]string{"Category", "Period", "Planned", "Actual", "Used", ""}, cells,
		func(col int) bool { return col >= 2 && col <= 4 })
}

// Match writes purchase orders with their three-way match outcome.
func (p *Printer) Match(rows []metrics.MatchRow) error {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.Number, r.Supplier, p.Amount(r.POAmount), p.Amount(r.InvoiceAmount), string(r.Status)}
	}
	return p.grid([]string{"Order", "Supplier", "PO amount", "Invoiced", "Status"}, cells,
		func(col int) bool { return col == 2 || col == 3 })
}

// CashFlow writes a projection, one row per day. Negative balances are
// shown as zero with the raw figure beside them.
func (p *Printer) CashFlow(seq iter.Seq2[int, int64]) error {
	var cells [][]string
	for day, balance := range seq {
		shown := p.Amount(metrics.DisplayBalance(balance))
		raw := ""
		if balance < 0 {
			raw = p.Amount(balance)
		}
		cells = append(cells, []string{strconv.Itoa(day), shown, raw})
	}
	return p.grid([]string{"Day", "Balance", "Shortfall"}, cells, rightAligned(0))
}
