package postgres

import (
	"context"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo per-year counters. The upsert holds the row lock until the
// surrounding transaction ends, so concurrent creators are serialized per counter.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository builds the adapter. Must be given a tx for gapless numbering.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next increments and returns the counter for (name, year), starting at 1.
func (r *SequenceRepo) Next(ctx context.Context, name string, year int) (int64, error) {
	query := `
		INSERT INTO sequences (name, year, value) VALUES ($1, $2, 1)
		ON CONFLICT (name, year) DO UPDATE SET value = sequences.value + 1
		RETURNING value`
	var v int64
	if err := r.q.QueryRow(ctx, query, name, year).Scan(&v); err != nil {
		return 0, domain.Storage("next sequence", err)
	}
	return v, nil
}

// Advance raises the counter for (name, year) to at least value.
func (r *SequenceRepo) Advance(ctx context.Context, name string, year int, value int64) error {
	query := `
		INSERT INTO sequences (name, year, value) VALUES ($1, $2, $3)
		ON CONFLICT (name, year) DO UPDATE SET value = GREATEST(sequences.value, EXCLUDED.value)`
	if _, err := r.q.Exec(ctx, query, name, year, value); err != nil {
		return domain.Storage("advance sequence", err)
	}
	return nil
}
