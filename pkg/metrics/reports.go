package metrics

import (
	"iter"
	"time"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// VATReport is the period VAT position.
type VATReport struct {
	Sales     int64 `json:"sales"`
	OutputTax int64 `json:"output_tax"`
	Purchases int64 `json:"purchases"`
	InputTax  int64 `json:"input_tax"`
	Payable   int64 `json:"payable"`
}

// VATSummary folds paid and sent invoices into output VAT and
// billed purchase orders into input VAT. Invoices carry their own rate;
// purchases use ratePct.
func VATSummary(invoices []types.Invoice, purchases []types.PurchaseOrder, ratePct float64) VATReport {
	var r VATReport
	for _, inv := range invoices {
		if inv.Status != types.InvoicePaid && inv.Status != types.InvoiceSent {
			continue
		}
		r.Sales += inv.Total
		r.OutputTax += SplitTaxInclusive(inv.Total, inv.VATRate).Tax
	}
	for _, po := range purchases {
		if po.InvoiceAmount == 0 {
			continue
		}
		r.Purchases += po.InvoiceAmount
		r.InputTax += SplitTaxInclusive(po.InvoiceAmount, ratePct).Tax
	}
	r.Payable = NetTaxPayable(r.OutputTax, r.InputTax)
	return r
}

// AgingRow totals the stock lots of one age bucket.
type AgingRow struct {
	Bucket   Bucket `json:"bucket"`
	Lots     int    `json:"lots"`
	Quantity int64  `json:"quantity"`
	Value    int64  `json:"value"`
}

// InventoryAging groups stock lots by days since receipt as of asOf. Every
// bucket is present, in Buckets order.
func InventoryAging(items []types.StockItem, asOf time.Time) []AgingRow {
	rows := make([]AgingRow, len(Buckets))
	for i, b := range Buckets {
		rows[i].Bucket = b
	}
	for _, it := range items {
		days := int(asOf.Sub(it.ReceivedAt).Hours() / 24)
		r := &rows[AgingBucket(days).Rank()]
		r.Lots++
		r.Quantity += it.Quantity
		r.Value += it.Value()
	}
	return rows
}

// InventoryValuation is the total stock value at cost.
func InventoryValuation(items []types.StockItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Value()
	}
	return total
}

// BudgetRow is one budget line with its variance.
type BudgetRow struct {
	Category string `json:"category"`
	Period   string `json:"period"`
	Planned  int64  `json:"planned"`
	Actual   int64  `json:"actual"`
	Variance
}

// BudgetReport computes the variance of each line, preserving input order.
func BudgetReport(lines []types.BudgetLine) []BudgetRow {
	rows := make([]BudgetRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, BudgetRow{
			Category: l.Category,
			Period:   l.Period,
			Planned:  l.Planned,
			Actual:   l.Actual,
			Variance: BudgetVariance(l.Planned, l.Actual),
		})
	}
	return rows
}

// MatchRow is one purchase order with its three-way match outcome.
type MatchRow struct {
	Number        string      `json:"number"`
	Supplier      string      `json:"supplier"`
	POAmount      int64       `json:"po_amount"`
	InvoiceAmount int64       `json:"invoice_amount"`
	Status        MatchStatus `json:"status"`
}

// MatchPurchases classifies every order, preserving input order.
func MatchPurchases(orders []types.PurchaseOrder) []MatchRow {
	rows := make([]MatchRow, 0, len(orders))
	for _, po := range orders {
		rows = append(rows, MatchRow{
			Number:        po.Number,
			Supplier:      po.Supplier,
			POAmount:      po.POAmount,
			InvoiceAmount: po.InvoiceAmount,
			Status:        ThreeWayMatchStatus(po.POAmount, po.InvoiceAmount),
		})
	}
	return rows
}

// InvoiceCashFlow projects the balance over days starting at from. Income
// on a day is the total of outstanding invoices due that day; expense is
// the billed amount of open or received purchase orders due that day.
// Items due before from are counted on day 0.
func InvoiceCashFlow(startingBalance int64, invoices []types.Invoice, orders []types.PurchaseOrder, from time.Time, days int) iter.Seq2[int, int64] {
	income := make(map[int]int64)
	for _, inv := range invoices {
		if inv.Outstanding() {
			income[dayOffset(from, inv.DueAt)] += inv.Total
		}
	}
	expense := make(map[int]int64)
	for _, po := range orders {
		if po.Status != types.PurchaseClosed && po.InvoiceAmount > 0 {
			expense[dayOffset(from, po.DueAt)] += po.InvoiceAmount
		}
	}
	return CashFlowProjection(startingBalance,
		func(day int) int64 { return income[day] },
		func(day int) int64 { return expense[day] },
		days)
}

func dayOffset(from, at time.Time) int {
	from = truncateDay(from)
	at = truncateDay(at)
	return max(0, int(at.Sub(from).Hours()/24))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
