package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

var _ repository.FinanceRepository = (*FinanceRepo)(nil)

// FinanceRepo FinanceRepository over pool or tx.
type FinanceRepo struct {
	q Querier
}

// NewFinanceRepository builds the adapter. Pass a pool or a tx.
func NewFinanceRepository(q Querier) *FinanceRepo {
	return &FinanceRepo{q: q}
}

const financeColumns = `id, type, category, amount, description, date, payment_method, status,
	reference, tax_year, notes, schema_version, created_at, updated_at`

// Create inserts a ledger entry.
func (r *FinanceRepo) Create(ctx context.Context, rec *entity.FinanceRecord) error {
	query := `INSERT INTO finance_records (` + financeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err := r.q.Exec(ctx, query, financeArgs(rec)...); err != nil {
		return writeErr("insert finance record", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the record does not exist.
func (r *FinanceRepo) GetByID(ctx context.Context, id string) (*entity.FinanceRecord, error) {
	rec, err := scanFinance(r.q.QueryRow(ctx, `SELECT `+financeColumns+` FROM finance_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get finance record", err)
	}
	return rec, nil
}

// List returns matching records, most recent date first.
func (r *FinanceRepo) List(ctx context.Context, f repository.FinanceFilter) ([]*entity.FinanceRecord, error) {
	fa := financeFilter(f)
	query := `SELECT ` + financeColumns + ` FROM finance_records` + fa.sql() +
		` ORDER BY date DESC, created_at DESC, id COLLATE "C" DESC`
	rows, err := r.q.Query(ctx, query, fa.args...)
	if err != nil {
		return nil, domain.Storage("list finance records", err)
	}
	defer rows.Close()
	list := []*entity.FinanceRecord{}
	for rows.Next() {
		rec, err := scanFinance(rows)
		if err != nil {
			return nil, domain.Storage("scan finance record", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// Update rewrites every column but created_at.
func (r *FinanceRepo) Update(ctx context.Context, rec *entity.FinanceRecord) error {
	query := `
		UPDATE finance_records SET type = $2, category = $3, amount = $4, description = $5, date = $6,
		       payment_method = $7, status = $8, reference = $9, tax_year = $10, notes = $11,
		       schema_version = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, withoutCreatedAt(financeArgs(rec))...)
	if err != nil {
		return writeErr("update finance record", err)
	}
	return notFound(tag, "finance record", rec.ID)
}

// Delete removes a record.
func (r *FinanceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM finance_records WHERE id = $1`, id); err != nil {
		return domain.Storage("delete finance record", err)
	}
	return nil
}

// Stats sums completed records per type and counts pending and failed ones.
func (r *FinanceRepo) Stats(ctx context.Context, f repository.FinanceFilter) (repository.FinanceStats, error) {
	fa := financeFilter(f)
	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE status = 'completed' AND type = 'invested'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'completed' AND type = 'expense'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'completed' AND type = 'tds'), 0),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'failed')
		FROM finance_records` + fa.sql()
	var s repository.FinanceStats
	err := r.q.QueryRow(ctx, query, fa.args...).Scan(
		&s.TotalInvested, &s.TotalExpenses, &s.TotalTDS, &s.RecordCount, &s.PendingCount, &s.FailedCount,
	)
	if err != nil {
		return repository.FinanceStats{}, domain.Storage("finance stats", err)
	}
	s.Profit = s.TotalInvested.Sub(s.TotalExpenses).Sub(s.TotalTDS)
	return s, nil
}

func financeFilter(f repository.FinanceFilter) filterArgs {
	var fa filterArgs
	if f.Type != "" {
		fa.add("type = ?", string(f.Type))
	}
	if f.Category != "" {
		fa.add("category = ?", f.Category)
	}
	if f.Status != "" {
		fa.add("status = ?", string(f.Status))
	}
	if f.PaymentMethod != "" {
		fa.add("payment_method = ?", f.PaymentMethod)
	}
	if f.DateFrom != nil {
		fa.add("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		fa.add("date <= ?", *f.DateTo)
	}
	if strings.TrimSpace(f.Search) != "" {
		fa.add("(description ILIKE ? OR category ILIKE ? OR reference ILIKE ? OR notes ILIKE ?)", likePattern(f.Search))
	}
	return fa
}

func financeArgs(rec *entity.FinanceRecord) []any {
	return []any{
		rec.ID, string(rec.Type), rec.Category, rec.Amount, rec.Description, rec.Date,
		rec.PaymentMethod, string(rec.Status), rec.Reference, rec.TaxYear, rec.Notes,
		rec.SchemaVersion, rec.CreatedAt, rec.UpdatedAt,
	}
}

func scanFinance(row pgx.Row) (*entity.FinanceRecord, error) {
	var rec entity.FinanceRecord
	var typ, status string
	err := row.Scan(&rec.ID, &typ, &rec.Category, &rec.Amount, &rec.Description, &rec.Date,
		&rec.PaymentMethod, &status, &rec.Reference, &rec.TaxYear, &rec.Notes,
		&rec.SchemaVersion, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.Type, rec.Status = entity.FinanceType(typ), entity.FinanceStatus(status)
	rec.Date, rec.CreatedAt, rec.UpdatedAt = rec.Date.UTC(), rec.CreatedAt.UTC(), rec.UpdatedAt.UTC()
	return &rec, nil
}
