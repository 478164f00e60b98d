package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/billing"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
)

func TestGenerateInvoicePDF(t *testing.T) {
	now := time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)
	doc := billing.InvoiceDocument{
		Invoice: &entity.Invoice{
			InvoiceNumber: "INV-2025-0007",
			Items: []entity.InvoiceItem{{
				PurchaseItem: entity.PurchaseItem{
					Name: "Hex bolt", Model: "M8", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100),
					Unit: "pcs", Currency: "INR", Total: decimal.NewFromInt(1000),
				},
				PurchaseID: "p1", PONumber: "PO-2025-0003",
			}},
			Currency: "INR", Subtotal: decimal.NewFromInt(1000), Tax: decimal.NewFromInt(180), Total: decimal.NewFromInt(1180),
			DueDate: now.AddDate(0, 0, 30), PaymentTerms: 30, Status: entity.InvoiceSent, Notes: "Thank you",
			CreatedAt: now,
		},
		Client: &entity.Client{CompanyName: "Acme Traders", BillingAddress: entity.Address{Line1: "12 MG Road", City: "Pune"}},
		Issuer: &entity.CompanySettings{
			CompanyName: "Zenith Supplies", GSTNumber: "27AAPFU0939F1ZV",
			BankDetails: &entity.BankDetails{AccountNumber: "0012345", IFSC: "HDFC0000001"},
		},
		TaxRate: decimal.RequireFromString("0.18"),
	}

	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), billing.InvoiceDocument{})
	assert.Error(t, err)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "INR 1,180.00", Money(decimal.NewFromInt(1180), "INR"))
	assert.Equal(t, "USD 99.99", Money(decimal.RequireFromString("99.99"), "USD"))
	assert.Equal(t, "INR 0.50", Money(decimal.RequireFromString("0.5"), ""))
}

func TestFormatAddress(t *testing.T) {
	a := entity.Address{Line1: "12 MG Road", City: "Pune", PostalCode: "411001", Country: "IN"}
	assert.Equal(t, "12 MG Road, Pune 411001, IN", formatAddress(a))
	assert.Equal(t, "", formatAddress(entity.Address{}))
}
