package types

import "errors"

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return Record values; callers type-assert to the concrete
// entity struct (Invoice, StockItem, PurchaseOrder, BudgetLine).
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (Record, error)

	// Set creates or updates an entity. When id is empty or a temporary
	// optimistic ID, a new UUID v7 is generated. Returns the stored ID.
	Set(id string, data Record) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table, newest first.
	Fetch(filter map[string]any) ([]Record, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter value type")
)

// Entity method errors.
var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidStatus = errors.New("invalid status value")
)
