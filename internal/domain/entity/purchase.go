package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus lifecycle of a purchase order.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseApproved  PurchaseStatus = "approved"
	PurchaseRejected  PurchaseStatus = "rejected"
	PurchaseCompleted PurchaseStatus = "completed"
)

// Valid reports whether s is one of the known purchase statuses.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchasePending, PurchaseApproved, PurchaseRejected, PurchaseCompleted:
		return true
	}
	return false
}

// Invoiceable reports whether line items of a purchase in this status may be billed.
func (s PurchaseStatus) Invoiceable() bool {
	return s == PurchaseApproved || s == PurchaseCompleted
}

// InvoiceableStatuses is the allow-list used to offer purchases when drafting an invoice.
var InvoiceableStatuses = []PurchaseStatus{PurchaseApproved, PurchaseCompleted}

// PurchaseItem one line of a purchase order. Total is in the item's own Currency.
type PurchaseItem struct {
	Name      string
	Model     string
	Supplier  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Unit      string // unit of measure: pcs, kg, hrs...
	Currency  string
	Total     decimal.Decimal
}

// Purchase a client's purchase order. Subtotal/Tax/Total are in BaseCurrency.
type Purchase struct {
	ID            string
	ClientID      string
	PONumber      string // PO-<year>-<seq>
	Items         []PurchaseItem
	Status        PurchaseStatus
	BaseCurrency  string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	OrderDate     time.Time
	Notes         string
	SchemaVersion int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
