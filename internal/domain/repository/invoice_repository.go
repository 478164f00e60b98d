package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// ErrAggregationUnsupported is returned by stores that cannot compute rollups themselves;
// callers then fold over the filtered records.
var ErrAggregationUnsupported = errors.New("store does not support aggregation")

// InvoiceFilter list and KPI criteria. DateFrom/DateTo bound createdAt, both inclusive.
type InvoiceFilter struct {
	ClientID string
	Status   entity.InvoiceStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// Bucket count and revenue of a group of invoices.
type Bucket struct {
	Count   int
	Revenue decimal.Decimal
}

// InvoiceStats invoice KPIs. Pending groups draft and sent.
type InvoiceStats struct {
	TotalInvoices int
	TotalRevenue  decimal.Decimal
	Paid          Bucket
	Pending       Bucket
	Overdue       Bucket
}

// InvoiceRepository persistence port for invoices.
// GetByID returns (nil, nil) when the invoice does not exist.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	Update(ctx context.Context, inv *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	// Stats may return ErrAggregationUnsupported.
	Stats(ctx context.Context, filter InvoiceFilter) (InvoiceStats, error)
}
