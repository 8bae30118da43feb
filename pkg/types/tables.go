package types

// Standard table names for Cupboard.GetTable.
const (
	TableInvoices  = "invoices"
	TableStock     = "stock"
	TablePurchases = "purchases"
	TableBudget    = "budget"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableInvoices,
	TableStock,
	TablePurchases,
	TableBudget,
}
