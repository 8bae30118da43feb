package types

import "time"

// Invoice states.
const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

// validInvoiceStates is the set of recognized invoice status values.
var validInvoiceStates = map[string]bool{
	InvoiceDraft:   true,
	InvoiceSent:    true,
	InvoicePaid:    true,
	InvoiceOverdue: true,
}

// Invoice is a sales invoice. Total is VAT-inclusive, in whole so'm.
type Invoice struct {
	InvoiceID    string    `json:"id"`
	Number       string    `json:"number" validate:"required"`
	Counterparty string    `json:"counterparty" validate:"required"`
	Status       string    `json:"status" validate:"required,oneof=draft sent paid overdue"`
	Total        int64     `json:"total" validate:"gte=0"`
	VATRate      float64   `json:"vat_rate" validate:"gte=0,lte=100"`
	IssuedAt     time.Time `json:"issued_at"`
	DueAt        time.Time `json:"due_at"`
}

// RecordID returns the invoice ID.
func (i Invoice) RecordID() string { return i.InvoiceID }

// Field exposes invoice columns by their JSON key.
func (i Invoice) Field(key string) (any, bool) {
	switch key {
	case "id":
		return i.InvoiceID, true
	case "number":
		return i.Number, true
	case "counterparty":
		return i.Counterparty, true
	case "status":
		return i.Status, true
	case "total":
		return i.Total, true
	case "vat_rate":
		return i.VATRate, true
	case "issued_at":
		return i.IssuedAt, true
	case "due_at":
		return i.DueAt, true
	}
	return nil, false
}

// WithID returns a copy carrying id.
func (i Invoice) WithID(id string) Invoice {
	i.InvoiceID = id
	return i
}

// Apply returns a copy with patch merged in. The ID cannot be patched.
func (i Invoice) Apply(patch Patch) (Invoice, error) {
	var err error
	for key, v := range patch {
		switch key {
		case "number":
			i.Number, err = patchString(key, v)
		case "counterparty":
			i.Counterparty, err = patchString(key, v)
		case "status":
			i.Status, err = patchString(key, v)
			if err == nil && !validInvoiceStates[i.Status] {
				err = ErrInvalidStatus
			}
		case "total":
			i.Total, err = patchInt64(key, v)
		case "vat_rate":
			i.VATRate, err = patchFloat(key, v)
		case "issued_at":
			i.IssuedAt, err = patchTime(key, v)
		case "due_at":
			i.DueAt, err = patchTime(key, v)
		default:
			err = unknownField(key)
		}
		if err != nil {
			return Invoice{}, err
		}
	}
	return i, nil
}

// Outstanding reports whether the invoice still expects a payment.
func (i Invoice) Outstanding() bool {
	return i.Status == InvoiceSent || i.Status == InvoiceOverdue
}
