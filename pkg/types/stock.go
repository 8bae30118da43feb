package types

import "time"

// StockItem is one received lot of a product in a warehouse.
type StockItem struct {
	ItemID     string    `json:"id"`
	SKU        string    `json:"sku" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Warehouse  string    `json:"warehouse" validate:"required"`
	Quantity   int64     `json:"quantity" validate:"gte=0"`
	UnitCost   int64     `json:"unit_cost" validate:"gte=0"`
	ReceivedAt time.Time `json:"received_at"`
}

// RecordID returns the lot ID.
func (s StockItem) RecordID() string { return s.ItemID }

// Field exposes stock columns by their JSON key. "value" is derived.
func (s StockItem) Field(key string) (any, bool) {
	switch key {
	case "id":
		return s.ItemID, true
	case "sku":
		return s.SKU, true
	case "name":
		return s.Name, true
	case "warehouse":
		return s.Warehouse, true
	case "quantity":
		return s.Quantity, true
	case "unit_cost":
		return s.UnitCost, true
	case "value":
		return s.Value(), true
	case "received_at":
		return s.ReceivedAt, true
	}
	return nil, false
}

// WithID returns a copy carrying id.
func (s StockItem) WithID(id string) StockItem {
	s.ItemID = id
	return s
}

// Apply returns a copy with patch merged in.
func (s StockItem) Apply(patch Patch) (StockItem, error) {
	var err error
	for key, v := range patch {
		switch key {
		case "sku":
			s.SKU, err = patchString(key, v)
		case "name":
			s.Name, err = patchString(key, v)
		case "warehouse":
			s.Warehouse, err = patchString(key, v)
		case "quantity":
			s.Quantity, err = patchInt64(key, v)
		case "unit_cost":
			s.UnitCost, err = patchInt64(key, v)
		case "received_at":
			s.ReceivedAt, err = patchTime(key, v)
		default:
			err = unknownField(key)
		}
		if err != nil {
			return StockItem{}, err
		}
	}
	return s, nil
}

// Value is the lot valuation at cost.
func (s StockItem) Value() int64 {
	return s.Quantity * s.UnitCost
}
