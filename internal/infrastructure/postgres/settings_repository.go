package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo single-row company profile (id = 1).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository builds the adapter. Pass a pool or a tx.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get returns (nil, nil) before the first save.
func (r *SettingsRepo) Get(ctx context.Context) (*entity.CompanySettings, error) {
	query := `
		SELECT company_name, address, phone, email, gst_number, pan_number, msme_number, bank_details,
		       invoice_prefix, po_prefix, logo_url, currency, terms_and_conditions, updated_at
		FROM company_settings WHERE id = 1`
	var s entity.CompanySettings
	var address, bank []byte
	err := r.q.QueryRow(ctx, query).Scan(&s.CompanyName, &address, &s.Phone, &s.Email, &s.GSTNumber,
		&s.PANNumber, &s.MSMENumber, &bank, &s.InvoicePrefix, &s.PurchasePrefix, &s.LogoURL, &s.Currency,
		&s.TermsAndConditions, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get settings", err)
	}
	if err := fromJSON(address, &s.Address); err != nil {
		return nil, domain.Storage("decode settings address", err)
	}
	if len(bank) > 0 && string(bank) != "null" {
		s.BankDetails = &entity.BankDetails{}
		if err := fromJSON(bank, s.BankDetails); err != nil {
			return nil, domain.Storage("decode settings bank details", err)
		}
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

// Save upserts the profile.
func (r *SettingsRepo) Save(ctx context.Context, s *entity.CompanySettings) error {
	address, err := toJSON(s.Address)
	if err != nil {
		return fmt.Errorf("encode settings address: %w", err)
	}
	var bank []byte
	if s.BankDetails != nil {
		if bank, err = toJSON(s.BankDetails); err != nil {
			return fmt.Errorf("encode settings bank details: %w", err)
		}
	}
	query := `
		INSERT INTO company_settings (id, company_name, address, phone, email, gst_number, pan_number, msme_number,
		       bank_details, invoice_prefix, po_prefix, logo_url, currency, terms_and_conditions, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
		       company_name = EXCLUDED.company_name, address = EXCLUDED.address, phone = EXCLUDED.phone,
		       email = EXCLUDED.email, gst_number = EXCLUDED.gst_number, pan_number = EXCLUDED.pan_number,
		       msme_number = EXCLUDED.msme_number, bank_details = EXCLUDED.bank_details,
		       invoice_prefix = EXCLUDED.invoice_prefix, po_prefix = EXCLUDED.po_prefix,
		       logo_url = EXCLUDED.logo_url,
		       currency = EXCLUDED.currency, terms_and_conditions = EXCLUDED.terms_and_conditions,
		       updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(ctx, query, s.CompanyName, address, s.Phone, s.Email, s.GSTNumber, s.PANNumber,
		s.MSMENumber, bank, s.InvoicePrefix, s.PurchasePrefix, s.LogoURL, s.Currency, s.TermsAndConditions, s.UpdatedAt)
	if err != nil {
		return domain.Storage("save settings", err)
	}
	return nil
}
