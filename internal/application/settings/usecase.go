package settings

import (
	"context"
	"strings"
	"time"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/pricing"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

// SettingsUseCase reads and saves the company profile.
type SettingsUseCase struct {
	repo         repository.SettingsRepository
	baseCurrency string
	now          func() time.Time
}

// NewSettingsUseCase builds the use case.
func NewSettingsUseCase(repo repository.SettingsRepository, baseCurrency string) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, baseCurrency: baseCurrency, now: time.Now}
}

// Get returns the saved profile or the defaults when nothing was saved yet.
func (uc *SettingsUseCase) Get(ctx context.Context) (*entity.CompanySettings, error) {
	s, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return &entity.CompanySettings{
			InvoicePrefix:  entity.InvoicePrefix,
			PurchasePrefix: entity.PurchasePrefix,
			Currency:       uc.baseCurrency,
		}, nil
	}
	return s, nil
}

// Save replaces the profile.
func (uc *SettingsUseCase) Save(ctx context.Context, in dto.SettingsRequest) (*entity.CompanySettings, error) {
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, domain.Validation("companyName is required")
	}
	prefix := strings.ToUpper(strings.TrimSpace(in.InvoicePrefix))
	if prefix == "" {
		prefix = entity.InvoicePrefix
	}
	poPrefix := strings.ToUpper(strings.TrimSpace(in.PurchasePrefix))
	if poPrefix == "" {
		poPrefix = entity.PurchasePrefix
	}
	cur := strings.ToUpper(strings.TrimSpace(in.Currency))
	if cur == "" {
		cur = uc.baseCurrency
	}
	if !pricing.Supported(cur) {
		return nil, domain.Validation("unsupported currency %q", in.Currency)
	}
	s := &entity.CompanySettings{
		CompanyName:        name,
		Address:            in.Address.ToAddress(),
		Phone:              strings.TrimSpace(in.Phone),
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		GSTNumber:          strings.ToUpper(strings.TrimSpace(in.GSTNumber)),
		PANNumber:          strings.ToUpper(strings.TrimSpace(in.PANNumber)),
		MSMENumber:         strings.TrimSpace(in.MSMENumber),
		BankDetails:        in.BankDetails.ToBankDetails(),
		InvoicePrefix:      prefix,
		PurchasePrefix:     poPrefix,
		LogoURL:            strings.TrimSpace(in.LogoURL),
		Currency:           cur,
		TermsAndConditions: in.TermsAndConditions,
		UpdatedAt:          entity.StoreTime(uc.now()),
	}
	if err := uc.repo.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
