package billing

import (
	"context"
	"fmt"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

// PDFUseCase renders the printable invoice and, when an archiver is configured, keeps a copy.
type PDFUseCase struct {
	invoices  repository.InvoiceRepository
	clients   repository.ClientRepository
	settings  repository.SettingsRepository
	generator InvoicePDFGenerator
	archiver  Archiver
	cfg       Config
	log       *logger.Logger
}

// NewPDFUseCase builds the use case. archiver may be nil.
func NewPDFUseCase(
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	settings repository.SettingsRepository,
	generator InvoicePDFGenerator,
	archiver Archiver,
	cfg Config,
	log *logger.Logger,
) *PDFUseCase {
	return &PDFUseCase{
		invoices:  invoices,
		clients:   clients,
		settings:  settings,
		generator: generator,
		archiver:  archiver,
		cfg:       cfg,
		log:       log.Component("invoice_pdf"),
	}
}

// ArchiveKey object key of an archived invoice PDF.
func ArchiveKey(inv *entity.Invoice) string {
	return fmt.Sprintf("invoices/%d/%s.pdf", inv.CreatedAt.Year(), inv.InvoiceNumber)
}

// Render returns the PDF bytes and a download file name.
func (uc *PDFUseCase) Render(ctx context.Context, id string) (pdf []byte, filename string, err error) {
	// ── 1. Invoice ────────────────────────────────────────────────────────────
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", domain.NotFound("invoice", id)
	}

	// ── 2. Client (may have been deleted since) ───────────────────────────────
	client, err := uc.clients.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, "", err
	}
	if client == nil {
		client = &entity.Client{ID: inv.ClientID, CompanyName: inv.ClientID}
	}

	// ── 3. Issuer ─────────────────────────────────────────────────────────────
	issuer, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	if issuer == nil {
		issuer = &entity.CompanySettings{InvoicePrefix: entity.InvoicePrefix, PurchasePrefix: entity.PurchasePrefix, Currency: uc.cfg.Policy.BaseCurrency}
	}

	// ── 4. Render ─────────────────────────────────────────────────────────────
	pdf, err = uc.generator.GenerateInvoicePDF(ctx, InvoiceDocument{
		Invoice: inv,
		Client:  client,
		Issuer:  issuer,
		TaxRate: uc.cfg.Policy.TaxRate,
	})
	if err != nil {
		return nil, "", domain.Unexpected(fmt.Errorf("render invoice pdf: %w", err))
	}

	// ── 5. Archive (best effort) ──────────────────────────────────────────────
	if uc.archiver != nil {
		key := ArchiveKey(inv)
		if err := uc.archiver.Put(ctx, key, pdf, "application/pdf"); err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Str("key", key).Msg("invoice pdf archival failed")
		} else {
			uc.log.Debug().Str("invoice_id", inv.ID).Str("key", key).Msg("invoice pdf archived")
		}
	}

	return pdf, inv.InvoiceNumber + ".pdf", nil
}
