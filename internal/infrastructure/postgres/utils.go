package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx so repositories work with or without a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation reports a unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

// writeErr maps driver errors of INSERT/UPDATE statements.
func writeErr(op string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrConflict, op)
	}
	return domain.Storage(op, err)
}

// notFound maps a zero-row UPDATE/DELETE.
func notFound(tag pgconn.CommandTag, what, id string) error {
	if tag.RowsAffected() == 0 {
		return domain.NotFound(what, id)
	}
	return nil
}

func toJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

func fromJSON(raw []byte, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// filterArgs accumulates WHERE clauses with positional arguments.
type filterArgs struct {
	where []string
	args  []any
}

func (f *filterArgs) add(clause string, arg any) {
	f.args = append(f.args, arg)
	f.where = append(f.where, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(f.args))))
}

func (f *filterArgs) sql() string {
	if len(f.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.where, " AND ")
}

// likePattern builds a case-insensitive substring pattern for ILIKE, escaping wildcards.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// withoutCreatedAt drops the next-to-last argument of an insert list (created_at, updated_at) for UPDATE statements.
func withoutCreatedAt(args []any) []any {
	n := len(args)
	out := make([]any, 0, n-1)
	out = append(out, args[:n-2]...)
	return append(out, args[n-1])
}
