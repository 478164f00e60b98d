package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

// InvoiceDocument everything the PDF renderer prints.
type InvoiceDocument struct {
	Invoice *entity.Invoice
	Client  *entity.Client
	Issuer  *entity.CompanySettings
	TaxRate decimal.Decimal
}

// InvoicePDFGenerator port for the PDF renderer (implemented in infrastructure/pdf).
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// Archiver port for durable copies of rendered documents (implemented in infrastructure/storage).
type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
