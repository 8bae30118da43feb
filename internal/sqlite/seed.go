package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// SeedEpoch anchors every generated date so that seed data is identical
// across runs.
var SeedEpoch = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

// SeedSet is the demo data inserted on first attach.
type SeedSet struct {
	Invoices  []types.Invoice
	Stock     []types.StockItem
	Purchases []types.PurchaseOrder
	Budget    []types.BudgetLine
}

var seedCounterparties = []string{
	"Baraka Savdo", "Ipak Yo'li", "Orient Trade", "Samarqand Non",
	"Toshkent Mebel", "Chorsu Market", "Registon Group", "Navoiy Qurilish",
}

var seedInvoiceStates = []string{
	types.InvoicePaid, types.InvoiceSent, types.InvoiceOverdue, types.InvoiceSent, types.InvoiceDraft,
}

var seedProducts = []struct {
	sku, name string
	cost      int64
}{
	{"FLR-001", "Un (50 kg)", 310000},
	{"SUG-002", "Shakar (50 kg)", 420000},
	{"OIL-003", "Paxta yog'i (5 l)", 98000},
	{"RCE-004", "Guruch (25 kg)", 275000},
	{"TEA-005", "Ko'k choy (1 kg)", 64000},
	{"SLT-006", "Tuz (1 kg)", 4500},
}

// SeedData builds the deterministic demo data set. Ids are left empty and
// assigned on insert.
func SeedData() SeedSet {
	var s SeedSet

	for i := range 25 {
		issued := SeedEpoch.AddDate(0, 0, -i*3)
		s.Invoices = append(s.Invoices, types.Invoice{
			Number:       fmt.Sprintf("INV-%04d", i+1),
			Counterparty: seedCounterparties[(i*5+1)%len(seedCounterparties)],
			Status:       seedInvoiceStates[i%len(seedInvoiceStates)],
			Total:        int64(150000 + (i*7919)%40*56000),
			VATRate:      types.DefaultVATRate,
			IssuedAt:     issued,
			DueAt:        issued.AddDate(0, 0, 30),
		})
	}

	warehouses := []string{"Asosiy", "Chilonzor"}
	for i := range 12 {
		p := seedProducts[i%len(seedProducts)]
		s.Stock = append(s.Stock, types.StockItem{
			SKU:        p.sku,
			Name:       p.name,
			Warehouse:  warehouses[i%len(warehouses)],
			Quantity:   int64(5 + (i*13)%40),
			UnitCost:   p.cost,
			ReceivedAt: SeedEpoch.AddDate(0, 0, -i*11),
		})
	}

	// Invoiced amounts exercise every match outcome: exact, small drift,
	// large drift and not yet billed.
	drift := []int64{0, 5, 40, 150, -1}
	for i := range 10 {
		po := int64(1000000 + i*250000)
		inv := int64(0)
		status := types.PurchaseOpen
		if d := drift[i%len(drift)]; d >= 0 {
			inv = po + po*d/1000
			status = types.PurchaseReceived
		}
		if i%4 == 3 {
			status = types.PurchaseClosed
		}
		s.Purchases = append(s.Purchases, types.PurchaseOrder{
			Number:        fmt.Sprintf("PO-%03d", i+1),
			Supplier:      seedProducts[i%len(seedProducts)].name + " ta'minotchisi",
			Status:        status,
			POAmount:      po,
			InvoiceAmount: inv,
			DueAt:         SeedEpoch.AddDate(0, 0, i*4),
		})
	}

	budget := []struct {
		category        string
		planned, actual int64
	}{
		{"Ijara", 12000000, 12000000},
		{"Ish haqi", 85000000, 88500000},
		{"Transport", 6000000, 4100000},
		{"Marketing", 9000000, 11250000},
		{"Kommunal", 3500000, 3320000},
		{"Xomashyo", 140000000, 0},
	}
	for _, b := range budget {
		s.Budget = append(s.Budget, types.BudgetLine{
			Category: b.category,
			Period:   SeedEpoch.Format("2006-01"),
			Planned:  b.planned,
			Actual:   b.actual,
		})
	}
	return s
}

// seedIfEmptyLocked inserts SeedData when every table is empty. Seeding is
// idempotent: a store with any data is left alone.
func (b *Backend) seedIfEmptyLocked() error {
	for _, name := range types.StandardTableNames {
		var n int
		if err := b.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", name)).Scan(&n); err != nil {
			return fmt.Errorf("counting %s: %w", name, err)
		}
		if n > 0 {
			return nil
		}
	}

	s := SeedData()
	batches := map[string][]types.Record{}
	for _, r := range s.Invoices {
		batches[types.TableInvoices] = append(batches[types.TableInvoices], r)
	}
	for _, r := range s.Stock {
		batches[types.TableStock] = append(batches[types.TableStock], r)
	}
	for _, r := range s.Purchases {
		batches[types.TablePurchases] = append(batches[types.TablePurchases], r)
	}
	for _, r := range s.Budget {
		batches[types.TableBudget] = append(batches[types.TableBudget], r)
	}

	for _, name := range types.StandardTableNames {
		t := b.tables[name]
		// Insert oldest first so that newest-first fetches list INV-0001 on top.
		recs := batches[name]
		for i := len(recs) - 1; i >= 0; i-- {
			if _, err := t.upsertLocked("", recs[i]); err != nil {
				return err
			}
		}
		if err := t.persistJSONLLocked(); err != nil {
			return err
		}
	}
	return nil
}
