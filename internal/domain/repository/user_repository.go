package repository

import (
	"context"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// UserRepository persistence port for dashboard users.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
