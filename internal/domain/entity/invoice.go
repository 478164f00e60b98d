package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus state of an invoice.
//
//	draft ──send──► sent ──markPaid──► paid
//	  │               │
//	  └──► overdue ◄──┘        any ──reset──► draft
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft: {InvoiceSent, InvoiceOverdue},
	InvoiceSent:  {InvoicePaid, InvoiceOverdue},
}

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Resetting to draft is always allowed; staying in the same state is a no-op.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if next == InvoiceDraft || next == s {
		return true
	}
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InvoiceItem a purchase line carried over to an invoice, remembering its source order.
type InvoiceItem struct {
	PurchaseItem
	PurchaseID string
	PONumber   string
}

// Invoice header plus its flattened line items.
// PurchaseIDs is the single source of truth for the referenced orders; the legacy
// single purchaseId is derived from it when serializing.
type Invoice struct {
	ID            string
	InvoiceNumber string // INV-<year>-<seq>
	ClientID      string
	PurchaseIDs   []string
	Items         []InvoiceItem
	Currency      string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	DueDate       time.Time
	PaymentTerms  int // days
	Notes         string
	Status        InvoiceStatus
	SchemaVersion int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PrimaryPurchaseID first referenced purchase, for clients that still read purchaseId.
func (inv *Invoice) PrimaryPurchaseID() string {
	if len(inv.PurchaseIDs) == 0 {
		return ""
	}
	return inv.PurchaseIDs[0]
}

// IsPastDue reports a sent invoice whose due date has passed. It never changes Status.
func (inv *Invoice) IsPastDue(now time.Time) bool {
	return inv.Status == InvoiceSent && !inv.DueDate.IsZero() && inv.DueDate.Before(now)
}
