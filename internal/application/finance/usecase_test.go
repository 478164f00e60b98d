package finance

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub000/internal/application/dto"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/entity"
	"github.com/balagrajendran/purchase-management-sub000/internal/domain/repository"
	"github.com/balagrajendran/purchase-management-sub000/internal/infrastructure/memory"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

func d(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func newUseCase() (*FinanceUseCase, repository.FinanceRepository) {
	repo := memory.New().Stores().Finance
	return NewFinanceUseCase(repo, logger.Nop()), repo
}

func TestCreate_Validation(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	tests := []struct {
		name string
		in   dto.FinanceRequest
	}{
		{"unknown type", dto.FinanceRequest{Type: "gift", Category: "other", Amount: d("1")}},
		{"category of another type", dto.FinanceRequest{Type: "invested", Category: "rent", Amount: d("1")}},
		{"no amount", dto.FinanceRequest{Type: "expense", Category: "rent"}},
		{"zero amount", dto.FinanceRequest{Type: "expense", Category: "rent", Amount: d("0")}},
		{"amount rounding to zero", dto.FinanceRequest{Type: "expense", Category: "rent", Amount: d("0.004")}},
		{"line total rounding to zero", dto.FinanceRequest{Type: "expense", Category: "rent", Quantity: d("0.001"), UnitPrice: d("1")}},
		{"negative quantity", dto.FinanceRequest{Type: "expense", Category: "rent", Quantity: d("-1"), UnitPrice: d("5")}},
		{"payment method", dto.FinanceRequest{Type: "expense", Category: "rent", Amount: d("1"), PaymentMethod: "barter"}},
		{"status", dto.FinanceRequest{Type: "expense", Category: "rent", Amount: d("1"), Status: "lost"}},
		{"tax year on expense", dto.FinanceRequest{Type: "expense", Category: "rent", Amount: d("1"), TaxYear: "2024-25"}},
		{"malformed tax year", dto.FinanceRequest{Type: "tds", Category: "tds_194c", Amount: d("1"), TaxYear: "2024"}},
		{"bad date", dto.FinanceRequest{Type: "expense", Category: "rent", Amount: d("1"), Date: "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreate_Defaults(t *testing.T) {
	uc, _ := newUseCase()
	rec, err := uc.Create(context.Background(), dto.FinanceRequest{
		Type: "TDS", Category: "tds_194j", Quantity: d("2"), UnitPrice: d("1250.255"), TaxYear: "2024-25", Date: "2024-09-30",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.FinanceTDS, rec.Type)
	assert.Equal(t, entity.FinanceCompleted, rec.Status)
	assert.Equal(t, "other", rec.PaymentMethod)
	assert.True(t, rec.Amount.Equal(decimal.RequireFromString("2500.51")), rec.Amount.String())
	assert.Equal(t, 2024, rec.Date.Year())
}

func seedLedger(t *testing.T, uc *FinanceUseCase) {
	t.Helper()
	rows := []dto.FinanceRequest{
		{Type: "invested", Category: "capital", Amount: d("100000"), Description: "Seed round", PaymentMethod: "bank_transfer"},
		{Type: "invested", Category: "loan", Amount: d("25000"), Status: "pending", Reference: "LN-7"},
		{Type: "expense", Category: "rent", Amount: d("18000"), Description: "Office rent March", PaymentMethod: "upi"},
		{Type: "expense", Category: "software", Amount: d("2499.50"), Notes: "design tools"},
		{Type: "expense", Category: "travel", Amount: d("7000"), Status: "failed"},
		{Type: "tds", Category: "tds_194c", Amount: d("1800"), TaxYear: "2024-25"},
		{Type: "tds", Category: "tds_194j", Amount: d("950.25"), Description: "Rent TDS"},
	}
	for _, r := range rows {
		_, err := uc.Create(context.Background(), r)
		require.NoError(t, err)
	}
}

func TestStats_FoldAndProfitIdentity(t *testing.T) {
	uc, repo := newUseCase()
	seedLedger(t, uc)
	ctx := context.Background()

	stats, err := uc.Stats(ctx, dto.FinanceQuery{})
	require.NoError(t, err)
	assert.True(t, stats.TotalInvested.Equal(decimal.RequireFromString("100000")), stats.TotalInvested.String())
	assert.True(t, stats.TotalExpenses.Equal(decimal.RequireFromString("20499.5")), stats.TotalExpenses.String())
	assert.True(t, stats.TotalTDS.Equal(decimal.RequireFromString("2750.25")), stats.TotalTDS.String())
	assert.True(t, stats.Profit.Equal(stats.TotalInvested.Sub(stats.TotalExpenses).Sub(stats.TotalTDS)))
	assert.Equal(t, 7, stats.RecordCount)
	assert.Equal(t, 1, stats.PendingCount)
	assert.Equal(t, 1, stats.FailedCount)

	queries := []dto.FinanceQuery{
		{Search: "rent"},
		{Type: "expense"},
		{Category: "capital"},
		{Status: "pending"},
		{PaymentMethod: "upi"},
		{Search: "TOOLS", Type: "expense"},
		{DateFrom: "2999-01-01"},
	}
	for _, q := range queries {
		filter, err := Filter(q)
		require.NoError(t, err)
		list, err := repo.List(ctx, filter)
		require.NoError(t, err)

		got, err := uc.Stats(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, Fold(list, filter), got, "%+v", q)

		invested := decimal.Zero
		for _, r := range list {
			if r.Type == entity.FinanceInvested && r.Status == entity.FinanceCompleted {
				invested = invested.Add(r.Amount)
			}
		}
		assert.True(t, invested.Equal(got.TotalInvested), "%+v", q)
		assert.True(t, got.Profit.Equal(got.TotalInvested.Sub(got.TotalExpenses).Sub(got.TotalTDS)))
	}

	rent, err := uc.Stats(ctx, dto.FinanceQuery{Search: "rent"})
	require.NoError(t, err)
	assert.Equal(t, 2, rent.RecordCount)
	assert.True(t, rent.TotalExpenses.Equal(decimal.RequireFromString("18000")))
	assert.True(t, rent.TotalTDS.Equal(decimal.RequireFromString("950.25")))

	_, err = uc.Stats(ctx, dto.FinanceQuery{Type: "gift"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestImport_PartialFailure(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	rows := []ImportRow{
		{Line: 1, Fields: map[string]string{"type": "expense", "category": "office", "quantity": "2", "unitprice": "150", "description": "Chairs"}},
		{Line: 2, Fields: map[string]string{"type": "expense", "category": "office", "quantity": "two", "unitprice": "150"}},
		{Line: 3, Fields: map[string]string{"type": "invested", "category": "capital", "amount": "50,000", "date": "2025-02-01"}},
	}

	res, err := uc.Import(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, res.OK)
	assert.Equal(t, 1, res.Fail)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Error, "quantity")

	stored, err := repo.List(ctx, repository.FinanceFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestCRUD(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	rec, err := uc.Create(ctx, dto.FinanceRequest{Type: "expense", Category: "rent", Amount: d("100")})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, rec.ID, dto.FinanceRequest{Type: "expense", Category: "utilities", Amount: d("120"), Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "utilities", updated.Category)
	assert.Equal(t, entity.FinancePending, updated.Status)
	assert.True(t, updated.Date.Equal(rec.Date), "date is kept when not supplied")

	require.NoError(t, uc.Delete(ctx, rec.ID))
	_, err = uc.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, rec.ID), domain.ErrNotFound)
}
