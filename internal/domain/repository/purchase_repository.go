package repository

import (
	"context"
	"time"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// Keyset position in the (created_at, id) ordering. An empty ID means
// "strictly after CreatedAt" regardless of id.
type Keyset struct {
	CreatedAt time.Time
	ID        string
}

// PurchaseFilter criteria for a page of purchases.
type PurchaseFilter struct {
	ClientID string
	Status   entity.PurchaseStatus
	Statuses []entity.PurchaseStatus // allow-list, ignored when empty
	POPrefix string
	Desc     bool
	After    *Keyset
	Limit    int // 0 means no limit
}

// PurchaseRepository persistence port for purchase orders.
// GetByID returns (nil, nil) when the purchase does not exist; GetByIDs silently skips unknown ids.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Purchase, error)
	List(ctx context.Context, filter PurchaseFilter) ([]*entity.Purchase, error)
	Update(ctx context.Context, p *entity.Purchase) error
	Delete(ctx context.Context, id string) error
}
