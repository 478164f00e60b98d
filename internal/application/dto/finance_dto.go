package dto

import (
	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

// FinanceRequest body for POST /api/finance and PUT /api/finance/:id.
// Amount may be omitted when Quantity and UnitPrice are given.
type FinanceRequest struct {
	Type          string           `json:"type" validate:"required,oneofci=invested expense tds"`
	Category      string           `json:"category" validate:"required"`
	Amount        *decimal.Decimal `json:"amount"`
	Quantity      *decimal.Decimal `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"`
	Description   string           `json:"description" validate:"max=500"`
	Date          string           `json:"date"`
	PaymentMethod string           `json:"paymentMethod" validate:"omitempty,oneofci=cash bank_transfer upi cheque card other"`
	Status        string           `json:"status" validate:"omitempty,oneofci=completed pending failed"`
	Reference     string           `json:"reference" validate:"max=200"`
	TaxYear       string           `json:"taxYear"`
	Notes         string           `json:"notes"`
}

// FinanceQuery query string of GET /api/finance and GET /api/finance/stats.
type FinanceQuery struct {
	Search        string `query:"search"`
	Type          string `query:"type" validate:"omitempty,oneofci=invested expense tds"`
	Category      string `query:"category"`
	Status        string `query:"status" validate:"omitempty,oneofci=completed pending failed"`
	PaymentMethod string `query:"paymentMethod"`
	DateFrom      string `query:"dateFrom"`
	DateTo        string `query:"dateTo"`
}

// FinanceResponse ledger entry in responses.
type FinanceResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	Reference     string          `json:"reference"`
	TaxYear       string          `json:"taxYear,omitempty"`
	Notes         string          `json:"notes"`
	SchemaVersion int             `json:"schemaVersion"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

// FinanceStatsResponse finance KPIs.
type FinanceStatsResponse struct {
	TotalInvested decimal.Decimal `json:"totalInvested"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	TotalTDS      decimal.Decimal `json:"totalTDS"`
	Profit        decimal.Decimal `json:"profit"`
	RecordCount   int             `json:"recordCount"`
	PendingCount  int             `json:"pendingCount"`
	FailedCount   int             `json:"failedCount"`
}

// ImportRowError one rejected CSV row; Row is 1-based and excludes the header.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult outcome of a bulk import.
type ImportResult struct {
	OK     int              `json:"ok"`
	Fail   int              `json:"fail"`
	Errors []ImportRowError `json:"errors"`
}

// FromFinanceRecord maps an entity to its response.
func FromFinanceRecord(r *entity.FinanceRecord) FinanceResponse {
	return FinanceResponse{
		ID:            r.ID,
		Type:          string(r.Type),
		Category:      r.Category,
		Amount:        r.Amount,
		Description:   r.Description,
		Date:          ISO(r.Date),
		PaymentMethod: r.PaymentMethod,
		Status:        string(r.Status),
		Reference:     r.Reference,
		TaxYear:       r.TaxYear,
		Notes:         r.Notes,
		SchemaVersion: r.SchemaVersion,
		CreatedAt:     ISO(r.CreatedAt),
		UpdatedAt:     ISO(r.UpdatedAt),
	}
}

// FromFinanceRecords maps a slice, never returning nil.
func FromFinanceRecords(list []*entity.FinanceRecord) []FinanceResponse {
	out := make([]FinanceResponse, 0, len(list))
	for _, r := range list {
		out = append(out, FromFinanceRecord(r))
	}
	return out
}

// FromFinanceStats maps repository figures.
func FromFinanceStats(s repository.FinanceStats) FinanceStatsResponse {
	return FinanceStatsResponse{
		TotalInvested: s.TotalInvested,
		TotalExpenses: s.TotalExpenses,
		TotalTDS:      s.TotalTDS,
		Profit:        s.Profit,
		RecordCount:   s.RecordCount,
		PendingCount:  s.PendingCount,
		FailedCount:   s.FailedCount,
	}
}

// FromInvoiceStats maps repository figures.
func FromInvoiceStats(s repository.InvoiceStats) InvoiceStatsResponse {
	return InvoiceStatsResponse{
		TotalInvoices: s.TotalInvoices,
		TotalRevenue:  s.TotalRevenue,
		Paid:          BucketDTO(s.Paid),
		Pending:       BucketDTO(s.Pending),
		Overdue:       BucketDTO(s.Overdue),
	}
}
