package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// tableFor returns the table an entity value belongs to.
func tableFor(rec types.Record) (string, bool) {
	switch rec.(type) {
	case types.Invoice:
		return types.TableInvoices, true
	case types.StockItem:
		return types.TableStock, true
	case types.PurchaseOrder:
		return types.TablePurchases, true
	case types.BudgetLine:
		return types.TableBudget, true
	}
	return "", false
}

// withID returns rec carrying id.
func withID(rec types.Record, id string) types.Record {
	switch e := rec.(type) {
	case types.Invoice:
		return e.WithID(id)
	case types.StockItem:
		return e.WithID(id)
	case types.PurchaseOrder:
		return e.WithID(id)
	case types.BudgetLine:
		return e.WithID(id)
	}
	return rec
}

// decodeEntity unmarshals a payload into the entity type of table.
func decodeEntity(table string, payload []byte) (types.Record, error) {
	switch table {
	case types.TableInvoices:
		return decodeAs[types.Invoice](payload)
	case types.TableStock:
		return decodeAs[types.StockItem](payload)
	case types.TablePurchases:
		return decodeAs[types.PurchaseOrder](payload)
	case types.TableBudget:
		return decodeAs[types.BudgetLine](payload)
	}
	return nil, fmt.Errorf("decode %s: %w", table, types.ErrTableNotFound)
}

func decodeAs[T types.Record](payload []byte) (types.Record, error) {
	var e T
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("parsing %T: %w", e, err)
	}
	return e, nil
}
