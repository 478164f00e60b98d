package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// InvoiceItemDTO invoice line carried over from a purchase.
type InvoiceItemDTO struct {
	PurchaseItemDTO
	PurchaseID string `json:"purchaseId"`
	PONumber   string `json:"poNumber"`
}

// CreateInvoiceRequest body for POST /api/invoices.
// PurchaseID is the legacy single reference; it is merged into PurchaseIDs.
type CreateInvoiceRequest struct {
	ClientID     string           `json:"clientId" validate:"required"`
	DueDate      string           `json:"dueDate" validate:"required"`
	PurchaseIDs  []string         `json:"purchaseIds"`
	PurchaseID   string           `json:"purchaseId"`
	Items        []InvoiceItemDTO `json:"items" validate:"required,min=1,dive"`
	Notes        string           `json:"notes"`
	PaymentTerms *int             `json:"paymentTerms" validate:"omitempty,min=0,max=365"`
}

// UpdateInvoiceRequest merge patch for PATCH /api/invoices/:id.
// Subtotal/Tax/Total are only considered when Items is absent.
type UpdateInvoiceRequest struct {
	Items        *[]InvoiceItemDTO `json:"items" validate:"omitempty,min=1,dive"`
	Subtotal     *decimal.Decimal  `json:"subtotal"`
	Tax          *decimal.Decimal  `json:"tax"`
	Total        *decimal.Decimal  `json:"total"`
	DueDate      *string           `json:"dueDate"`
	Notes        *string           `json:"notes"`
	PaymentTerms *int              `json:"paymentTerms" validate:"omitempty,min=0,max=365"`
	Status       *string           `json:"status" validate:"omitempty,oneofci=draft sent paid overdue"`
}

// InvoiceStatusRequest body for POST /api/invoices/:id/status.
type InvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneofci=draft sent paid overdue"`
}

// InvoiceListQuery query string of GET /api/invoices.
type InvoiceListQuery struct {
	Status   string `query:"status" validate:"omitempty,oneofci=draft sent paid overdue"`
	ClientID string `query:"clientId"`
}

// InvoiceStatsQuery query string of GET /api/invoices/stats.
type InvoiceStatsQuery struct {
	ClientID string `query:"clientId"`
	DateFrom string `query:"dateFrom"`
	DateTo   string `query:"dateTo"`
}

// InvoiceResponse invoice in responses. PurchaseID is derived from PurchaseIDs.
type InvoiceResponse struct {
	ID            string           `json:"id"`
	InvoiceNumber string           `json:"invoiceNumber"`
	ClientID      string           `json:"clientId"`
	PurchaseIDs   []string         `json:"purchaseIds"`
	PurchaseID    string           `json:"purchaseId"`
	Items         []InvoiceItemDTO `json:"items"`
	Currency      string           `json:"currency"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	Total         decimal.Decimal  `json:"total"`
	DueDate       string           `json:"dueDate"`
	PaymentTerms  int              `json:"paymentTerms"`
	Notes         string           `json:"notes"`
	Status        string           `json:"status"`
	IsPastDue     bool             `json:"isPastDue"`
	SchemaVersion int              `json:"schemaVersion"`
	CreatedAt     string           `json:"createdAt"`
	UpdatedAt     string           `json:"updatedAt"`
}

// InvoiceEnvelope {invoice} wrapper returned by create and patch.
type InvoiceEnvelope struct {
	Invoice InvoiceResponse `json:"invoice"`
}

// InvoiceList {items,total} body of GET /api/invoices.
type InvoiceList struct {
	Items []InvoiceResponse `json:"items"`
	Total int               `json:"total"`
}

// BucketDTO count and revenue of a status group.
type BucketDTO struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// InvoiceStatsResponse invoice KPIs.
type InvoiceStatsResponse struct {
	TotalInvoices int             `json:"totalInvoices"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	Paid          BucketDTO       `json:"paid"`
	Pending       BucketDTO       `json:"pending"`
	Overdue       BucketDTO       `json:"overdue"`
}

// FromInvoice maps an entity to its response; now drives isPastDue.
func FromInvoice(inv *entity.Invoice, now time.Time) InvoiceResponse {
	items := make([]InvoiceItemDTO, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemDTO{
			PurchaseItemDTO: FromPurchaseItem(it.PurchaseItem),
			PurchaseID:      it.PurchaseID,
			PONumber:        it.PONumber,
		})
	}
	ids := inv.PurchaseIDs
	if ids == nil {
		ids = []string{}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientID:      inv.ClientID,
		PurchaseIDs:   ids,
		PurchaseID:    inv.PrimaryPurchaseID(),
		Items:         items,
		Currency:      inv.Currency,
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		DueDate:       ISO(inv.DueDate),
		PaymentTerms:  inv.PaymentTerms,
		Notes:         inv.Notes,
		Status:        string(inv.Status),
		IsPastDue:     inv.IsPastDue(now),
		SchemaVersion: inv.SchemaVersion,
		CreatedAt:     ISO(inv.CreatedAt),
		UpdatedAt:     ISO(inv.UpdatedAt),
	}
}

// FromInvoices maps a slice, never returning nil.
func FromInvoices(list []*entity.Invoice, now time.Time) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, FromInvoice(inv, now))
	}
	return out
}

// ToInvoiceItems maps request lines; totals are recomputed later.
func ToInvoiceItems(in []InvoiceItemDTO) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, 0, len(in))
	for _, d := range in {
		out = append(out, entity.InvoiceItem{
			PurchaseItem: d.ToPurchaseItem(),
			PurchaseID:   d.PurchaseID,
			PONumber:     d.PONumber,
		})
	}
	return out
}
