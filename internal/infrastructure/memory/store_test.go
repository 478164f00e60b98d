package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
)

func TestRun_RollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(tx repository.Stores) error {
		n, err := tx.Sequences.Next(ctx, repository.SequenceInvoice, 2025)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		require.NoError(t, tx.Clients.Create(ctx, &entity.Client{ID: "c1", CompanyName: "Acme"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := s.Stores().Clients.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, c)
	n, err := s.Stores().Sequences.Next(ctx, repository.SequenceInvoice, 2025)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "counter restored")

	n, err = s.Stores().Sequences.Next(ctx, repository.SequenceInvoice, 2026)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "counters are per year")
}

func TestRepos_CopyOnReadAndWrite(t *testing.T) {
	s := New()
	ctx := context.Background()
	repo := s.Stores().Purchases
	p := &entity.Purchase{ID: "p1", PONumber: "PO-2025-0001", Items: []entity.PurchaseItem{{Name: "Bolt"}}, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, p))
	p.Items[0].Name = "changed"

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Bolt", got.Items[0].Name)

	dup := &entity.Purchase{ID: "p2", PONumber: "PO-2025-0001"}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)

	_, err = s.Stores().Invoices.Stats(ctx, repository.InvoiceFilter{})
	assert.ErrorIs(t, err, repository.ErrAggregationUnsupported)
}

func TestRun_RollbackKeepsWritesMadeOutsideTheTransaction(t *testing.T) {
	s := New()
	ctx := context.Background()
	outside := s.Stores()
	require.NoError(t, outside.Clients.Create(ctx, &entity.Client{ID: "c-old", CompanyName: "Old"}))

	err := s.Run(ctx, func(tx repository.Stores) error {
		require.NoError(t, tx.Clients.Create(ctx, &entity.Client{ID: "c-tx", CompanyName: "Tx"}))
		require.NoError(t, outside.Clients.Create(ctx, &entity.Client{ID: "c-outside", CompanyName: "Outside"}))
		require.NoError(t, outside.Finance.Create(ctx, &entity.FinanceRecord{ID: "f-outside"}))
		return errors.New("abort")
	})
	require.Error(t, err)

	for id, want := range map[string]bool{"c-old": true, "c-outside": true, "c-tx": false} {
		c, err := outside.Clients.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, c != nil, id)
	}
	rec, err := outside.Finance.GetByID(ctx, "f-outside")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestRun_RollbackRestoresUpdatesAndDeletes(t *testing.T) {
	s := New()
	ctx := context.Background()
	repo := s.Stores().Invoices
	require.NoError(t, repo.Create(ctx, &entity.Invoice{ID: "i1", InvoiceNumber: "INV-2025-0001", Notes: "original"}))
	require.NoError(t, repo.Create(ctx, &entity.Invoice{ID: "i2", InvoiceNumber: "INV-2025-0002"}))
	require.NoError(t, s.Stores().Settings.Save(ctx, &entity.CompanySettings{CompanyName: "Acme"}))

	err := s.Run(ctx, func(tx repository.Stores) error {
		inv, err := tx.Invoices.GetByID(ctx, "i1")
		require.NoError(t, err)
		inv.Notes = "edited"
		require.NoError(t, tx.Invoices.Update(ctx, inv))
		inv.Notes = "edited twice"
		require.NoError(t, tx.Invoices.Update(ctx, inv))
		require.NoError(t, tx.Invoices.Delete(ctx, "i2"))
		require.NoError(t, tx.Settings.Save(ctx, &entity.CompanySettings{CompanyName: "Changed"}))
		return errors.New("abort")
	})
	require.Error(t, err)

	i1, err := repo.GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "original", i1.Notes)
	i2, err := repo.GetByID(ctx, "i2")
	require.NoError(t, err)
	assert.NotNil(t, i2)
	settings, err := s.Stores().Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", settings.CompanyName)
}

func TestRun_RollbackNeverReissuesACounterValue(t *testing.T) {
	s := New()
	ctx := context.Background()
	outside := s.Stores().Sequences

	err := s.Run(ctx, func(tx repository.Stores) error {
		n, err := tx.Sequences.Next(ctx, repository.SequencePurchase, 2025)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		n, err = outside.Next(ctx, repository.SequencePurchase, 2025)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
		return errors.New("abort")
	})
	require.Error(t, err)

	n, err := outside.Next(ctx, repository.SequencePurchase, 2025)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n, "2 was handed out outside the transaction")
}
