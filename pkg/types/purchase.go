package types

import "time"

// Purchase order states.
const (
	PurchaseOpen     = "open"
	PurchaseReceived = "received"
	PurchaseClosed   = "closed"
)

var validPurchaseStates = map[string]bool{
	PurchaseOpen:     true,
	PurchaseReceived: true,
	PurchaseClosed:   true,
}

// PurchaseOrder pairs an order amount with the supplier invoice received
// against it. InvoiceAmount is zero until the supplier bills.
type PurchaseOrder struct {
	OrderID       string    `json:"id"`
	Number        string    `json:"number" validate:"required"`
	Supplier      string    `json:"supplier" validate:"required"`
	Status        string    `json:"status" validate:"required,oneof=open received closed"`
	POAmount      int64     `json:"po_amount" validate:"gte=0"`
	InvoiceAmount int64     `json:"invoice_amount" validate:"gte=0"`
	DueAt         time.Time `json:"due_at"`
}

// RecordID returns the order ID.
func (p PurchaseOrder) RecordID() string { return p.OrderID }

// Field exposes purchase order columns by their JSON key.
func (p PurchaseOrder) Field(key string) (any, bool) {
	switch key {
	case "id":
		return p.OrderID, true
	case "number":
		return p.Number, true
	case "supplier":
		return p.Supplier, true
	case "status":
		return p.Status, true
	case "po_amount":
		return p.POAmount, true
	case "invoice_amount":
		return p.InvoiceAmount, true
	case "due_at":
		return p.DueAt, true
	}
	return nil, false
}

// WithID returns a copy carrying id.
func (p PurchaseOrder) WithID(id string) PurchaseOrder {
	p.OrderID = id
	return p
}

// Apply returns a copy with patch merged in.
func (p PurchaseOrder) Apply(patch Patch) (PurchaseOrder, error) {
	var err error
	for key, v := range patch {
		switch key {
		case "number":
			p.Number, err = patchString(key, v)
		case "supplier":
			p.Supplier, err = patchString(key, v)
		case "status":
			p.Status, err = patchString(key, v)
			if err == nil && !validPurchaseStates[p.Status] {
				err = ErrInvalidStatus
			}
		case "po_amount":
			p.POAmount, err = patchInt64(key, v)
		case "invoice_amount":
			p.InvoiceAmount, err = patchInt64(key, v)
		case "due_at":
			p.DueAt, err = patchTime(key, v)
		default:
			err = unknownField(key)
		}
		if err != nil {
			return PurchaseOrder{}, err
		}
	}
	return p, nil
}
