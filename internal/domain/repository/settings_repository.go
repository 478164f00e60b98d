package repository

import (
	"context"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// SettingsRepository single-row company profile. Get returns (nil, nil) before the first save.
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.CompanySettings, error)
	Save(ctx context.Context, s *entity.CompanySettings) error
}
