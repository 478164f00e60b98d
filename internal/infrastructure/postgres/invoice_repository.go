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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo InvoiceRepository over pool or tx.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass a pool or a tx.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, client_id, purchase_ids, items, currency, subtotal, tax, total,
	due_date, payment_terms, notes, status, schema_version, created_at, updated_at`

// Create inserts an invoice; a taken invoice_number is ErrConflict.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	args, err := invoiceArgs(inv)
	if err != nil {
		return err
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return writeErr("insert invoice", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the invoice does not exist.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get invoice", err)
	}
	return inv, nil
}

// List returns matching invoices, newest first.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	fa := invoiceFilter(f)
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + fa.sql() + ` ORDER BY created_at DESC, id COLLATE "C" DESC`
	rows, err := r.q.Query(ctx, query, fa.args...)
	if err != nil {
		return nil, domain.Storage("list invoices", err)
	}
	defer rows.Close()
	list := []*entity.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, domain.Storage("scan invoice", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Update rewrites every column but created_at.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	args, err := invoiceArgs(inv)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices SET invoice_number = $2, client_id = $3, purchase_ids = $4, items = $5,
		       currency = $6, subtotal = $7, tax = $8, total = $9, due_date = $10,
		       payment_terms = $11, notes = $12, status = $13, schema_version = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, withoutCreatedAt(args)...)
	if err != nil {
		return writeErr("update invoice", err)
	}
	return notFound(tag, "invoice", inv.ID)
}

// Delete removes an invoice. Referenced purchases are left untouched.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return domain.Storage("delete invoice", err)
	}
	return nil
}

// Stats aggregates in one pass. Pending groups draft and sent.
func (r *InvoiceRepo) Stats(ctx context.Context, f repository.InvoiceFilter) (repository.InvoiceStats, error) {
	fa := invoiceFilter(f)
	query := `
		SELECT COUNT(*), COALESCE(SUM(total), 0),
		       COUNT(*) FILTER (WHERE status = 'paid'), COALESCE(SUM(total) FILTER (WHERE status = 'paid'), 0),
		       COUNT(*) FILTER (WHERE status IN ('draft', 'sent')), COALESCE(SUM(total) FILTER (WHERE status IN ('draft', 'sent')), 0),
		       COUNT(*) FILTER (WHERE status = 'overdue'), COALESCE(SUM(total) FILTER (WHERE status = 'overdue'), 0)
		FROM invoices` + fa.sql()
	var s repository.InvoiceStats
	err := r.q.QueryRow(ctx, query, fa.args...).Scan(
		&s.TotalInvoices, &s.TotalRevenue,
		&s.Paid.Count, &s.Paid.Revenue,
		&s.Pending.Count, &s.Pending.Revenue,
		&s.Overdue.Count, &s.Overdue.Revenue,
	)
	if err != nil {
		return repository.InvoiceStats{}, domain.Storage("invoice stats", err)
	}
	return s, nil
}

func invoiceFilter(f repository.InvoiceFilter) filterArgs {
	var fa filterArgs
	if f.ClientID != "" {
		fa.add("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		fa.add("status = ?", string(f.Status))
	}
	if f.DateFrom != nil {
		fa.add("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		fa.add("created_at <= ?", *f.DateTo)
	}
	return fa
}

func invoiceArgs(inv *entity.Invoice) ([]any, error) {
	items, err := invoiceItemsJSON(inv.Items)
	if err != nil {
		return nil, fmt.Errorf("encode invoice items: %w", err)
	}
	ids := inv.PurchaseIDs
	if ids == nil {
		ids = []string{}
	}
	return []any{
		inv.ID, inv.InvoiceNumber, inv.ClientID, ids, items, inv.Currency,
		inv.Subtotal, inv.Tax, inv.Total, inv.DueDate, inv.PaymentTerms, inv.Notes,
		string(inv.Status), inv.SchemaVersion, inv.CreatedAt, inv.UpdatedAt,
	}, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var items []byte
	var status string
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &inv.PurchaseIDs, &items, &inv.Currency,
		&inv.Subtotal, &inv.Tax, &inv.Total, &inv.DueDate, &inv.PaymentTerms, &inv.Notes,
		&status, &inv.SchemaVersion, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	if inv.Items, err = invoiceItemsFromJSON(items); err != nil {
		return nil, err
	}
	inv.DueDate, inv.CreatedAt, inv.UpdatedAt = inv.DueDate.UTC(), inv.CreatedAt.UTC(), inv.UpdatedAt.UTC()
	return &inv, nil
}
