//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
	"github.com/balagrajendran/purchase-management-sub000/pkg/config"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("purchase_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, Migrate(dsn, logger.Nop()))

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	stores := NewStores(pool)
	now := entity.StoreTime(time.Date(2025, 3, 1, 10, 0, 0, 123456789, time.UTC))

	t.Run("client round trip", func(t *testing.T) {
		c := &entity.Client{
			ID: "c1", CompanyName: "Acme Traders", Email: "a@acme.in", Status: entity.ClientActive,
			BillingAddress: entity.Address{Line1: "12 MG Road", City: "Pune"},
			BankDetails:    &entity.BankDetails{AccountNumber: "001", IFSC: "HDFC0001"},
			SchemaVersion:  1, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, stores.Clients.Create(ctx, c))
		got, err := stores.Clients.GetByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, c, got)

		list, err := stores.Clients.List(ctx, repository.ClientFilter{Search: "ACME"})
		require.NoError(t, err)
		assert.Len(t, list, 1)

		missing, err := stores.Clients.GetByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("purchase keyset pages match byte order", func(t *testing.T) {
		ids := []string{"b", "A", "a", "B"}
		for i, id := range ids {
			p := &entity.Purchase{
				ID: id, ClientID: "c1", PONumber: fmt.Sprintf("PO-2025-%04d", i+1), Status: entity.PurchasePending,
				Items:        []entity.PurchaseItem{{Name: "Bolt", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(5), Currency: "INR", Total: decimal.NewFromInt(10)}},
				BaseCurrency: "INR", Subtotal: decimal.NewFromInt(10), Tax: decimal.RequireFromString("1.8"), Total: decimal.RequireFromString("11.8"),
				OrderDate: now, SchemaVersion: 1, CreatedAt: now, UpdatedAt: now,
			}
			require.NoError(t, stores.Purchases.Create(ctx, p))
		}
		var seen []string
		var after *repository.Keyset
		for {
			page, err := stores.Purchases.List(ctx, repository.PurchaseFilter{After: after, Limit: 1})
			require.NoError(t, err)
			if len(page) == 0 {
				break
			}
			seen = append(seen, page[0].ID)
			after = &repository.Keyset{CreatedAt: page[0].CreatedAt, ID: page[0].ID}
		}
		assert.Equal(t, []string{"A", "B", "a", "b"}, seen)

		byPrefix, err := stores.Purchases.List(ctx, repository.PurchaseFilter{POPrefix: "PO-2025-000", Desc: true})
		require.NoError(t, err)
		assert.Len(t, byPrefix, 4)
		assert.Equal(t, "b", byPrefix[0].ID)

		dup := &entity.Purchase{ID: "dup", PONumber: "PO-2025-0001", Status: entity.PurchasePending, BaseCurrency: "INR", CreatedAt: now, UpdatedAt: now, OrderDate: now}
		assert.ErrorIs(t, stores.Purchases.Create(ctx, dup), domain.ErrConflict)
	})

	t.Run("sequences are gapless under concurrency", func(t *testing.T) {
		tx := NewTxRunner(pool)
		const n = 20
		var wg sync.WaitGroup
		got := make(chan int64, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := tx.Run(ctx, func(s repository.Stores) error {
					v, err := s.Sequences.Next(ctx, repository.SequenceInvoice, 2025)
					if err == nil {
						got <- v
					}
					return err
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		close(got)
		seen := map[int64]bool{}
		for v := range got {
			seen[v] = true
		}
		assert.Len(t, seen, n)
		for i := int64(1); i <= n; i++ {
			assert.True(t, seen[i], "missing %d", i)
		}
	})

	t.Run("stats agree with the fold partitions", func(t *testing.T) {
		for i, st := range []entity.InvoiceStatus{entity.InvoiceDraft, entity.InvoiceSent, entity.InvoicePaid, entity.InvoiceOverdue} {
			inv := &entity.Invoice{
				ID: fmt.Sprintf("i%d", i), InvoiceNumber: fmt.Sprintf("INV-2025-%04d", i+1), ClientID: "c1",
				PurchaseIDs: []string{"a"}, Currency: "INR", Status: st, PaymentTerms: 30,
				Subtotal: decimal.NewFromInt(100), Tax: decimal.NewFromInt(18), Total: decimal.NewFromInt(118),
				DueDate: now, SchemaVersion: 1, CreatedAt: now, UpdatedAt: now,
			}
			require.NoError(t, stores.Invoices.Create(ctx, inv))
		}
		s, err := stores.Invoices.Stats(ctx, repository.InvoiceFilter{})
		require.NoError(t, err)
		assert.Equal(t, 4, s.TotalInvoices)
		assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(472)))
		assert.Equal(t, 2, s.Pending.Count)
		assert.Equal(t, 1, s.Paid.Count)
		assert.Equal(t, 1, s.Overdue.Count)

		rec := &entity.FinanceRecord{ID: "f1", Type: entity.FinanceExpense, Category: "rent", Amount: decimal.NewFromInt(500),
			Date: now, PaymentMethod: "upi", Status: entity.FinanceCompleted, SchemaVersion: 1, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, stores.Finance.Create(ctx, rec))
		fs, err := stores.Finance.Stats(ctx, repository.FinanceFilter{Search: "REN"})
		require.NoError(t, err)
		assert.Equal(t, 1, fs.RecordCount)
		assert.True(t, fs.Profit.Equal(decimal.NewFromInt(-500)))
	})

	t.Run("settings upsert", func(t *testing.T) {
		none, err := stores.Settings.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, none)
		s := &entity.CompanySettings{CompanyName: "Acme", InvoicePrefix: "ACM", PurchasePrefix: "ORD", Currency: "INR", UpdatedAt: now}
		require.NoError(t, stores.Settings.Save(ctx, s))
		s.CompanyName = "Acme Traders"
		require.NoError(t, stores.Settings.Save(ctx, s))
		got, err := stores.Settings.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Acme Traders", got.CompanyName)
		assert.Equal(t, "ORD", got.PurchasePrefix)
	})
}
