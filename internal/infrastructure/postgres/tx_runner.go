package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner runs callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, hands fn repositories bound to it, and commits or rolls back.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.Stores) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStores(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewStores binds every repository to q (the pool, or a tx).
func NewStores(q Querier) repository.Stores {
	return repository.Stores{
		Clients:   NewClientRepository(q),
		Purchases: NewPurchaseRepository(q),
		Invoices:  NewInvoiceRepository(q),
		Finance:   NewFinanceRepository(q),
		Settings:  NewSettingsRepository(q),
		Users:     NewUserRepository(q),
		Sequences: NewSequenceRepository(q),
	}
}
