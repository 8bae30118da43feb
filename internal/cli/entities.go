package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/buxgalter/internal/render"
	"github.com/mesh-intelligence/buxgalter/internal/workspace"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// defaultDueDays is the payment term of new invoices and orders.
const defaultDueDays = 30

func (a *app) today() time.Time {
	y, m, d := a.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func invoicesCmd(a *app) *cobra.Command {
	return entityCmd(a, entityDef[types.Invoice]{
		name:  types.TableInvoices,
		short: "Manage sales invoices",
		columns: []render.Column{
			{Key: "id", Title: "ID"},
			{Key: "number", Title: "Number"},
			{Key: "counterparty", Title: "Counterparty"},
			{Key: "status", Title: "Status"},
			{Key: "issued_at", Title: "Issued"},
			{Key: "due_at", Title: "Due"},
			{Key: "total", Title: "Total", Numeric: true},
		},
		searchKeys: []string{"number", "counterparty"},
		addFields: []addField{
			{flag: "number", key: "number", usage: "invoice number (default: next INV-NNNN)"},
			{flag: "counterparty", key: "counterparty", usage: "customer name"},
			{flag: "total", key: "total", usage: "VAT-inclusive total in so'm"},
			{flag: "status", key: "status", usage: "draft, sent, paid or overdue"},
			{flag: "vat-rate", key: "vat_rate", usage: "VAT percent (default: vat_rate from config)"},
			{flag: "issued", key: "issued_at", usage: "issue date, yyyy-mm-dd (default: today)"},
			{flag: "due", key: "due_at", usage: "due date, yyyy-mm-dd (default: 30 days after today)"},
		},
		collection: func(ws *workspace.Workspace) *workspace.Collection[types.Invoice] { return ws.Invoices },
		draft: func(a *app, existing []types.Invoice) types.Invoice {
			numbers := make([]string, len(existing))
			for i, inv := range existing {
				numbers[i] = inv.Number
			}
			today := a.today()
			return types.Invoice{
				Number:   nextNumber("INV-", 4, numbers),
				Status:   types.InvoiceDraft,
				VATRate:  a.settings.store.VATRate,
				IssuedAt: today,
				DueAt:    today.AddDate(0, 0, defaultDueDays),
			}
		},
	})
}

func stockCmd(a *app) *cobra.Command {
	return entityCmd(a, entityDef[types.StockItem]{
		name:  types.TableStock,
		short: "Manage warehouse stock lots",
		columns: []render.Column{
			{Key: "id", Title: "ID"},
			{Key: "sku", Title: "SKU"},
			{Key: "name", Title: "Name"},
			{Key: "warehouse", Title: "Warehouse"},
			{Key: "received_at", Title: "Received"},
			{Key: "quantity", Title: "Qty", Numeric: true},
			{Key: "unit_cost", Title: "Unit cost", Numeric: true},
			{Key: "value", Title: "Value", Numeric: true},
		},
		searchKeys: []string{"sku", "name", "warehouse"},
		addFields: []addField{
			{flag: "sku", key: "sku", usage: "stock keeping unit"},
			{flag: "name", key: "name", usage: "product name"},
			{flag: "warehouse", key: "warehouse", usage: "warehouse name"},
			{flag: "quantity", key: "quantity", usage: "units received"},
			{flag: "unit-cost", key: "unit_cost", usage: "cost per unit in so'm"},
			{flag: "received", key: "received_at", usage: "receipt date, yyyy-mm-dd (default: today)"},
		},
		collection: func(ws *workspace.Workspace) *workspace.Collection[types.StockItem] { return ws.Stock },
		draft: func(a *app, _ []types.StockItem) types.StockItem {
			return types.StockItem{ReceivedAt: a.today()}
		},
	})
}

func purchasesCmd(a *app) *cobra.Command {
	return entityCmd(a, entityDef[types.PurchaseOrder]{
		name:  types.TablePurchases,
		short: "Manage purchase orders",
		columns: []render.Column{
			{Key: "id", Title: "ID"},
			{Key: "number", Title: "Number"},
			{Key: "supplier", Title: "Supplier"},
			{Key: "status", Title: "Status"},
			{Key: "due_at", Title: "Due"},
			{Key: "po_amount", Title: "PO amount", Numeric: true},
			{Key: "invoice_amount", Title: "Invoiced", Numeric: true},
		},
		searchKeys: []string{"number", "supplier"},
		addFields: []addField{
			{flag: "number", key: "number", usage: "order number (default: next PO-NNN)"},
			{flag: "supplier", key: "supplier", usage: "supplier name"},
			{flag: "status", key: "status", usage: "open, received or closed"},
			{flag: "po-amount", key: "po_amount", usage: "ordered amount in so'm"},
			{flag: "invoice-amount", key: "invoice_amount", usage: "supplier invoice amount in so'm"},
			{flag: "due", key: "due_at", usage: "payment due date, yyyy-mm-dd"},
		},
		collection: func(ws *workspace.Workspace) *workspace.Collection[types.PurchaseOrder] { return ws.Purchases },
		draft: func(a *app, existing []types.PurchaseOrder) types.PurchaseOrder {
			numbers := make([]string, len(existing))
			for i, po := range existing {
				numbers[i] = po.Number
			}
			return types.PurchaseOrder{
				Number: nextNumber("PO-", 3, numbers),
				Status: types.PurchaseOpen,
				DueAt:  a.today().AddDate(0, 0, defaultDueDays),
			}
		},
	})
}

func budgetCmd(a *app) *cobra.Command {
	return entityCmd(a, entityDef[types.BudgetLine]{
		name:  types.TableBudget,
		short: "Manage budget lines",
		columns: []render.Column{
			{Key: "id", Title: "ID"},
			{Key: "category", Title: "Category"},
			{Key: "period", Title: "Period"},
			{Key: "planned", Title: "Planned", Numeric: true},
			{Key: "actual", Title: "Actual", Numeric: true},
		},
		searchKeys: []string{"category", "period"},
		addFields: []addField{
			{flag: "category", key: "category", usage: "expense category"},
			{flag: "period", key: "period", usage: "month, yyyy-mm (default: current month)"},
			{flag: "planned", key: "planned", usage: "planned spend in so'm"},
			{flag: "actual", key: "actual", usage: "actual spend in so'm"},
		},
		collection: func(ws *workspace.Workspace) *workspace.Collection[types.BudgetLine] { return ws.Budget },
		draft: func(a *app, _ []types.BudgetLine) types.BudgetLine {
			return types.BudgetLine{Period: a.today().Format("2006-01")}
		},
	})
}
