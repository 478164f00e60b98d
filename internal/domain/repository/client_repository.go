package repository

import (
	"context"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// ClientFilter list criteria. Search is a case-insensitive substring over company, contact and email.
type ClientFilter struct {
	Status entity.ClientStatus
	Search string
}

// ClientRepository persistence port for clients.
// GetByID returns (nil, nil) when the client does not exist.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
}
