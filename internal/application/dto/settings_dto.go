package dto

import "github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"

// SettingsRequest body for POST/PUT /api/settings.
type SettingsRequest struct {
	CompanyName        string          `json:"companyName" validate:"required,max=200"`
	Address            AddressDTO      `json:"address"`
	Phone              string          `json:"phone" validate:"omitempty,max=40"`
	Email              string          `json:"email" validate:"omitempty,email"`
	GSTNumber          string          `json:"gstNumber" validate:"omitempty,max=20"`
	PANNumber          string          `json:"panNumber" validate:"omitempty,max=20"`
	MSMENumber         string          `json:"msmeNumber" validate:"omitempty,max=40"`
	BankDetails        *BankDetailsDTO `json:"bankDetails"`
	InvoicePrefix      string          `json:"invoicePrefix" validate:"omitempty,alphanum,max=10"`
	PurchasePrefix     string          `json:"poPrefix" validate:"omitempty,alphanum,max=10"`
	LogoURL            string          `json:"logoUrl" validate:"omitempty,url"`
	Currency           string          `json:"currency" validate:"omitempty,len=3"`
	TermsAndConditions string          `json:"termsAndConditions"`
}

// SettingsResponse company profile.
type SettingsResponse struct {
	CompanyName        string          `json:"companyName"`
	Address            AddressDTO      `json:"address"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	GSTNumber          string          `json:"gstNumber"`
	PANNumber          string          `json:"panNumber"`
	MSMENumber         string          `json:"msmeNumber"`
	BankDetails        *BankDetailsDTO `json:"bankDetails,omitempty"`
	InvoicePrefix      string          `json:"invoicePrefix"`
	PurchasePrefix     string          `json:"poPrefix"`
	LogoURL            string          `json:"logoUrl"`
	Currency           string          `json:"currency"`
	TermsAndConditions string          `json:"termsAndConditions"`
	UpdatedAt          string          `json:"updatedAt,omitempty"`
}

// FromSettings maps the entity.
func FromSettings(s *entity.CompanySettings) SettingsResponse {
	return SettingsResponse{
		CompanyName:        s.CompanyName,
		Address:            FromAddress(s.Address),
		Phone:              s.Phone,
		Email:              s.Email,
		GSTNumber:          s.GSTNumber,
		PANNumber:          s.PANNumber,
		MSMENumber:         s.MSMENumber,
		BankDetails:        FromBankDetails(s.BankDetails),
		InvoicePrefix:      s.InvoicePrefix,
		PurchasePrefix:     s.PurchasePrefix,
		LogoURL:            s.LogoURL,
		Currency:           s.Currency,
		TermsAndConditions: s.TermsAndConditions,
		UpdatedAt:          ISO(s.UpdatedAt),
	}
}
