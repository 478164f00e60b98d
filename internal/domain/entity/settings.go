package entity

import "time"

// CompanySettings issuer profile printed on every invoice.
type CompanySettings struct {
	CompanyName        string
	Address            Address
	Phone              string
	Email              string
	GSTNumber          string
	PANNumber          string
	MSMENumber         string
	BankDetails        *BankDetails
	InvoicePrefix      string
	PurchasePrefix     string
	LogoURL            string
	Currency           string
	TermsAndConditions string
	UpdatedAt          time.Time
}

// InvoiceNumberPrefix returns the configured invoice prefix or InvoicePrefix. Safe on nil.
func (s *CompanySettings) InvoiceNumberPrefix() string {
	if s == nil || s.InvoicePrefix == "" {
		return InvoicePrefix
	}
	return s.InvoicePrefix
}

// PurchaseNumberPrefix returns the configured PO prefix or PurchasePrefix. Safe on nil.
func (s *CompanySettings) PurchaseNumberPrefix() string {
	if s == nil || s.PurchasePrefix == "" {
		return PurchasePrefix
	}
	return s.PurchasePrefix
}
