package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// FinanceFilter shared by listing, the SQL rollup and the in-process fold.
// Search is a case-insensitive substring over description, category, reference and notes;
// the other fields are exact matches.
type FinanceFilter struct {
	Search        string
	Type          entity.FinanceType
	Category      string
	Status        entity.FinanceStatus
	PaymentMethod string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// FinanceStats top-line figures. Sums only include completed records.
type FinanceStats struct {
	TotalInvested decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalTDS      decimal.Decimal
	Profit        decimal.Decimal
	RecordCount   int
	PendingCount  int
	FailedCount   int
}

// FinanceRepository persistence port for finance records.
// GetByID returns (nil, nil) when the record does not exist.
type FinanceRepository interface {
	Create(ctx context.Context, rec *entity.FinanceRecord) error
	GetByID(ctx context.Context, id string) (*entity.FinanceRecord, error)
	List(ctx context.Context, filter FinanceFilter) ([]*entity.FinanceRecord, error)
	Update(ctx context.Context, rec *entity.FinanceRecord) error
	Delete(ctx context.Context, id string) error
	// Stats may return ErrAggregationUnsupported.
	Stats(ctx context.Context, filter FinanceFilter) (FinanceStats, error)
}
