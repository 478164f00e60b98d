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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo PurchaseRepository over pool or tx.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository builds the adapter. Pass a pool or a tx.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, client_id, po_number, items, status, base_currency, subtotal, tax, total,
	order_date, notes, schema_version, created_at, updated_at`

// Create inserts a purchase; a taken po_number is ErrConflict.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	args, err := purchaseArgs(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return writeErr("insert purchase", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the purchase does not exist.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get purchase", err)
	}
	return p, nil
}

// GetByIDs returns the existing purchases among ids, in no particular order.
func (r *PurchaseRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Purchase, error) {
	if len(ids) == 0 {
		return []*entity.Purchase{}, nil
	}
	return r.query(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = ANY($1)`, ids)
}

// List pages over (created_at, id). Ids compare bytewise so the order matches the other stores.
func (r *PurchaseRepo) List(ctx context.Context, f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	var fa filterArgs
	if f.ClientID != "" {
		fa.add("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		fa.add("status = ?", string(f.Status))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		fa.add("status = ANY(?)", statuses)
	}
	if f.POPrefix != "" {
		fa.add("starts_with(po_number, ?)", f.POPrefix)
	}
	cmp, dir := ">", "ASC"
	if f.Desc {
		cmp, dir = "<", "DESC"
	}
	if k := f.After; k != nil {
		if k.ID == "" {
			fa.add("created_at "+cmp+" ?", k.CreatedAt)
		} else {
			fa.args = append(fa.args, k.CreatedAt, k.ID)
			n := len(fa.args)
			fa.where = append(fa.where, fmt.Sprintf(`(created_at %s $%d OR (created_at = $%d AND id COLLATE "C" %s $%d))`,
				cmp, n-1, n-1, cmp, n))
		}
	}
	query := `SELECT ` + purchaseColumns + ` FROM purchases` + fa.sql() +
		fmt.Sprintf(` ORDER BY created_at %s, id COLLATE "C" %s`, dir, dir)
	if f.Limit > 0 {
		fa.args = append(fa.args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(fa.args))
	}
	return r.query(ctx, query, fa.args...)
}

// Update rewrites every column but created_at.
func (r *PurchaseRepo) Update(ctx context.Context, p *entity.Purchase) error {
	args, err := purchaseArgs(p)
	if err != nil {
		return err
	}
	query := `
		UPDATE purchases SET client_id = $2, po_number = $3, items = $4, status = $5, base_currency = $6,
		       subtotal = $7, tax = $8, total = $9, order_date = $10, notes = $11,
		       schema_version = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, withoutCreatedAt(args)...)
	if err != nil {
		return writeErr("update purchase", err)
	}
	return notFound(tag, "purchase", p.ID)
}

// Delete removes a purchase; invoices keep their snapshot of its items.
func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id); err != nil {
		return domain.Storage("delete purchase", err)
	}
	return nil
}

func (r *PurchaseRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Purchase, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("list purchases", err)
	}
	defer rows.Close()
	list := []*entity.Purchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, domain.Storage("scan purchase", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func purchaseArgs(p *entity.Purchase) ([]any, error) {
	items, err := purchaseItemsJSON(p.Items)
	if err != nil {
		return nil, fmt.Errorf("encode purchase items: %w", err)
	}
	return []any{
		p.ID, p.ClientID, p.PONumber, items, string(p.Status), p.BaseCurrency,
		p.Subtotal, p.Tax, p.Total, p.OrderDate, p.Notes, p.SchemaVersion,
		p.CreatedAt, p.UpdatedAt,
	}, nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var items []byte
	var status string
	err := row.Scan(&p.ID, &p.ClientID, &p.PONumber, &items, &status, &p.BaseCurrency,
		&p.Subtotal, &p.Tax, &p.Total, &p.OrderDate, &p.Notes, &p.SchemaVersion,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Status = entity.PurchaseStatus(status)
	if p.Items, err = purchaseItemsFromJSON(items); err != nil {
		return nil, err
	}
	p.OrderDate, p.CreatedAt, p.UpdatedAt = p.OrderDate.UTC(), p.CreatedAt.UTC(), p.UpdatedAt.UTC()
	return &p, nil
}
